/*
Package domain contains the core domain models for the cascade engine.

It defines the fundamental entities of a cascade run: the narrow Node view,
the RunStatus state machine, the RunSnapshot handed to observers, and the
generation call contract. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - Node: The engine's narrow view of a prompt node (ID, flags, ordering).
  - RunSnapshot: A read-only, point-in-time copy of the live run state.
  - GenerationOutput / GenerationError: The generation client contract.
  - RunHooks: Optional lifecycle callbacks for observability.
*/
package domain
