/*
Package ports defines the driven ports (interfaces) for the cascade engine.

These interfaces decouple the core control loop from the surrounding
application, allowing the engine to work with any tree source, generation
backend, or result sink.

# Key Interfaces

  - TreeProvider: Supplies the prompt hierarchy and per-node flags.
  - Generator: Performs the actual generation call for a node.
  - ResultStore: Persists generation outputs (memory, Redis, ...).
*/
package ports
