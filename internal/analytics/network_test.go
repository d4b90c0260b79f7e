package analytics

import (
	"encoding/json"
	"testing"

	"github.com/lorepath/insight-api/internal/domain"
)

func experienceWithDomains(id string, domains []string) domain.Experience {
	return domain.Experience{
		ID:        id,
		Timestamp: "2024-03-01T10:00:00Z",
		Learner:   domain.Learner{ID: "learner-1"},
		Context:   domain.Context{Location: domain.Location{Name: "Lab"}},
		Data: domain.ExperienceData{
			Type:        "observation",
			Description: "d",
			Domains:     domains,
		},
	}
}

func nodesByID(network domain.DomainNetwork) map[string]int {
	out := make(map[string]int, len(network.Nodes))
	for _, n := range network.Nodes {
		out[n.ID] = n.Size
	}
	return out
}

func edgesByPair(network domain.DomainNetwork) map[[2]string]int {
	out := make(map[[2]string]int, len(network.Edges))
	for _, e := range network.Edges {
		out[[2]string{e.Source, e.Target}] = e.Weight
	}
	return out
}

func TestBuildNetworkTwoExperiences(t *testing.T) {
	t.Parallel()

	network := BuildNetwork([]domain.Experience{
		experienceWithDomains("a", []string{"math", "physics"}),
		experienceWithDomains("b", []string{"physics", "chemistry"}),
	})

	nodes := nodesByID(network)
	if len(nodes) != 3 {
		t.Fatalf("Expected 3 nodes, got %v", nodes)
	}
	if nodes["math"] != 1 || nodes["physics"] != 2 || nodes["chemistry"] != 1 {
		t.Errorf("Expected math:1 physics:2 chemistry:1, got %v", nodes)
	}

	edges := edgesByPair(network)
	if len(edges) != 2 {
		t.Fatalf("Expected 2 edges, got %v", edges)
	}
	if edges[[2]string{"math", "physics"}] != 1 {
		t.Errorf("Expected (math,physics):1, got %v", edges)
	}
	if edges[[2]string{"chemistry", "physics"}] != 1 {
		t.Errorf("Expected (chemistry,physics):1, got %v", edges)
	}
}

func TestBuildNetworkCanonicalEdgeOrder(t *testing.T) {
	t.Parallel()

	// Input order within a record must not affect edge identity.
	network := BuildNetwork([]domain.Experience{
		experienceWithDomains("a", []string{"zoology", "art"}),
		experienceWithDomains("b", []string{"art", "zoology"}),
	})

	if len(network.Edges) != 1 {
		t.Fatalf("Expected 1 edge, got %v", network.Edges)
	}
	edge := network.Edges[0]
	if edge.Source != "art" || edge.Target != "zoology" {
		t.Errorf("Expected canonical (art,zoology), got (%s,%s)", edge.Source, edge.Target)
	}
	if edge.Weight != 2 {
		t.Errorf("Expected weight 2, got %d", edge.Weight)
	}
	for _, e := range network.Edges {
		if e.Source > e.Target {
			t.Errorf("Edge (%s,%s) not canonically ordered", e.Source, e.Target)
		}
	}
}

func TestBuildNetworkNoDomains(t *testing.T) {
	t.Parallel()

	network := BuildNetwork([]domain.Experience{
		experienceWithDomains("a", nil),
	})

	if len(network.Nodes) != 0 || len(network.Edges) != 0 {
		t.Errorf("Expected empty network, got %v", network)
	}
}

func TestBuildNetworkSingleDomain(t *testing.T) {
	t.Parallel()

	network := BuildNetwork([]domain.Experience{
		experienceWithDomains("a", []string{"music"}),
	})

	if len(network.Nodes) != 1 || network.Nodes[0].Size != 1 {
		t.Errorf("Expected single node of size 1, got %v", network.Nodes)
	}
	if len(network.Edges) != 0 {
		t.Errorf("Expected no edges, got %v", network.Edges)
	}
}

func TestBuildNetworkDuplicateDomainInOneRecord(t *testing.T) {
	t.Parallel()

	// Literal counting behavior: duplicates count once per occurrence
	// and produce a self-referential pair.
	network := BuildNetwork([]domain.Experience{
		experienceWithDomains("a", []string{"math", "math"}),
	})

	nodes := nodesByID(network)
	if nodes["math"] != 2 {
		t.Errorf("Expected math:2, got %v", nodes)
	}

	edges := edgesByPair(network)
	if edges[[2]string{"math", "math"}] != 1 {
		t.Errorf("Expected self pair (math,math):1, got %v", edges)
	}
}

func TestBuildNetworkEmptyBatch(t *testing.T) {
	t.Parallel()

	network := BuildNetwork(nil)
	if network.Nodes == nil || network.Edges == nil {
		t.Error("Expected non-nil node and edge slices")
	}
	if len(network.Nodes) != 0 || len(network.Edges) != 0 {
		t.Errorf("Expected empty network, got %v", network)
	}
}

func TestGenerateDomainNetwork(t *testing.T) {
	t.Parallel()

	input := `[
		{
			"id": "a", "timestamp": "t",
			"learner": {"id": "l"},
			"context": {"location": {"name": "n"}},
			"experience": {"type": "x", "description": "d", "domains": ["math", "physics"]}
		}
	]`

	out, err := GenerateDomainNetwork([]byte(input))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var network domain.DomainNetwork
	if err := json.Unmarshal(out, &network); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(network.Nodes) != 2 || len(network.Edges) != 1 {
		t.Errorf("Expected 2 nodes and 1 edge, got %v", network)
	}
}

func TestGenerateDomainNetworkHardFailure(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		"garbage",
		`{"not": "an array"}`,
		`[{"id": "a"}]`, // record missing required nested objects
	} {
		if _, err := GenerateDomainNetwork([]byte(input)); err == nil {
			t.Errorf("Expected hard error for %q", input)
		}
	}
}
