package domain

// DomainNetwork is a weighted co-occurrence graph over domain tags.
// Nodes are unique by ID and edges are unique by their canonical
// {Source, Target} pair. The order of both slices is
// implementation-defined; consumers must treat them as unordered sets.
type DomainNetwork struct {
	Nodes []NetworkNode `json:"nodes"`
	Edges []NetworkEdge `json:"edges"`
}

// NetworkNode is a domain tag together with the number of times it
// occurred across the analyzed batch.
type NetworkNode struct {
	ID   string `json:"id"`
	Size int    `json:"size"`
}

// NetworkEdge records how many experiences exhibit a given domain
// pairing. Source and Target are stored in canonical order
// (Source <= Target lexicographically) so an unordered pair has exactly
// one representation.
type NetworkEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}
