package analytics

import (
	"encoding/json"
	"fmt"

	"github.com/lorepath/insight-api/internal/domain"
)

// domainPair is a canonical unordered pair of domain strings, with
// Source <= Target under lexicographic ordering.
type domainPair struct {
	Source string
	Target string
}

// BuildNetwork folds a batch of experiences into a domain co-occurrence
// network. Node sizes count list occurrences: a domain repeated within
// one record's list increments its node once per repetition, and pairs
// are formed over raw list indices, so duplicates also yield
// self-referential or repeated pair increments. The literal counting
// rule preserves the wire format's established semantics, so consumers
// of existing network outputs see identical numbers.
//
// The order of the returned node and edge slices is unspecified.
func BuildNetwork(experiences []domain.Experience) domain.DomainNetwork {
	nodes := make(map[string]int)
	edges := make(map[domainPair]int)

	for _, exp := range experiences {
		domains := exp.Data.Domains
		if domains == nil {
			continue
		}

		for _, d := range domains {
			nodes[d]++
		}

		for i := 0; i < len(domains); i++ {
			for j := i + 1; j < len(domains); j++ {
				pair := domainPair{Source: domains[i], Target: domains[j]}
				if pair.Source > pair.Target {
					pair.Source, pair.Target = pair.Target, pair.Source
				}
				edges[pair]++
			}
		}
	}

	network := domain.DomainNetwork{
		Nodes: make([]domain.NetworkNode, 0, len(nodes)),
		Edges: make([]domain.NetworkEdge, 0, len(edges)),
	}

	for id, size := range nodes {
		network.Nodes = append(network.Nodes, domain.NetworkNode{ID: id, Size: size})
	}
	for pair, weight := range edges {
		network.Edges = append(network.Edges, domain.NetworkEdge{
			Source: pair.Source,
			Target: pair.Target,
			Weight: weight,
		})
	}

	return network
}

// GenerateDomainNetwork is the JSON boundary counterpart of
// BuildNetwork. Unlike validation, a batch that cannot be decoded has
// no meaningful partial result, so the failure surfaces as a hard
// error.
func GenerateDomainNetwork(input []byte) ([]byte, error) {
	var experiences []domain.Experience
	if err := json.Unmarshal(input, &experiences); err != nil {
		return nil, fmt.Errorf("failed to decode experience batch: %w", err)
	}

	out, err := json.Marshal(BuildNetwork(experiences))
	if err != nil {
		return nil, fmt.Errorf("failed to encode domain network: %w", err)
	}

	return out, nil
}
