// Package file loads a prompt tree from a YAML document into an in-memory
// provider. The document holds a single root node; children nest under a
// children key, so the file layout mirrors the tree layout.
package file

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/oxygn-cloud-ai/cascade/pkg/adapters/memory"
	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

// nodeDoc is the YAML shape of one node.
type nodeDoc struct {
	ID                 string    `mapstructure:"id"`
	Name               string    `mapstructure:"name"`
	IsAssistant        bool      `mapstructure:"is_assistant"`
	ExcludeFromCascade bool      `mapstructure:"exclude_from_cascade"`
	Deleted            bool      `mapstructure:"deleted"`
	Position           string    `mapstructure:"position"`
	Children           []nodeDoc `mapstructure:"children"`
}

// Load reads a YAML tree file and returns a provider plus the root node ID.
func Load(path string) (*memory.Provider, domain.NodeID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read tree file: %w", err)
	}
	provider, rootID, err := Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", path, err)
	}
	return provider, rootID, nil
}

// Parse decodes a YAML tree document.
func Parse(data []byte) (*memory.Provider, domain.NodeID, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, "", fmt.Errorf("invalid yaml: %w", err)
	}
	if len(raw) == 0 {
		return nil, "", fmt.Errorf("empty tree document")
	}

	var root nodeDoc
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &root,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, "", err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, "", fmt.Errorf("invalid tree document: %w", err)
	}

	if root.ID == "" {
		return nil, "", fmt.Errorf("root node is missing an id")
	}

	provider := memory.NewProvider()
	provider.AddNode(toNode(root))
	if err := addChildren(provider, root); err != nil {
		return nil, "", err
	}
	return provider, domain.NodeID(root.ID), nil
}

func addChildren(provider *memory.Provider, parent nodeDoc) error {
	for _, child := range parent.Children {
		if child.ID == "" {
			return fmt.Errorf("child of %s is missing an id", parent.ID)
		}
		if err := provider.AddChild(domain.NodeID(parent.ID), toNode(child)); err != nil {
			return err
		}
		if err := addChildren(provider, child); err != nil {
			return err
		}
	}
	return nil
}

func toNode(doc nodeDoc) domain.Node {
	name := doc.Name
	if name == "" {
		name = doc.ID
	}
	return domain.Node{
		ID:                 domain.NodeID(doc.ID),
		Name:               name,
		IsAssistant:        doc.IsAssistant,
		ExcludeFromCascade: doc.ExcludeFromCascade,
		Deleted:            doc.Deleted,
		Position:           doc.Position,
	}
}
