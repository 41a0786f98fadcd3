package main

import (
	"fmt"
	"sort"

	"github.com/rhpvorderman/fastqdedup/sequence"
	"github.com/rhpvorderman/fastqdedup/trie"
)

// Cluster dissection decides which members of a popped cluster stand
// for distinct molecules. The trie guarantees the members form one
// connected component; how many representatives that component gets
// depends on the method.
const (
	methodHighestCount = "highest_count"
	methodAdjacency    = "adjacency"
	methodDirectional  = "directional"
)

type dissector func(cluster []trie.ClusterMember, maxDist int, edit bool) [][]byte

func dissectorFor(method string) (dissector, error) {
	switch method {
	case methodHighestCount:
		return dissectHighestCount, nil
	case methodAdjacency:
		return dissectAdjacency, nil
	case methodDirectional:
		return dissectDirectional, nil
	}
	return nil, fmt.Errorf("unknown cluster dissection method %q", method)
}

func within(a, b []byte, maxDist int, edit bool) bool {
	if edit {
		return sequence.WithinEdit(a, b, maxDist)
	}
	return sequence.WithinHamming(a, b, maxDist)
}

// byCountDesc returns member indices ordered by descending count,
// ties broken by cluster position so the outcome is deterministic.
func byCountDesc(cluster []trie.ClusterMember) []int {
	order := make([]int, len(cluster))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return cluster[order[a]].Count > cluster[order[b]].Count
	})
	return order
}

// dissectHighestCount collapses the whole cluster onto its most
// abundant member.
func dissectHighestCount(cluster []trie.ClusterMember, maxDist int, edit bool) [][]byte {
	best := 0
	for i, m := range cluster {
		if m.Count > cluster[best].Count {
			best = i
		}
	}
	return [][]byte{cluster[best].Sequence}
}

// dissectAdjacency repeatedly takes the most abundant remaining
// member and absorbs its direct neighbours.
func dissectAdjacency(cluster []trie.ClusterMember, maxDist int, edit bool) [][]byte {
	taken := make([]bool, len(cluster))
	var survivors [][]byte
	for _, i := range byCountDesc(cluster) {
		if taken[i] {
			continue
		}
		taken[i] = true
		survivors = append(survivors, cluster[i].Sequence)
		for j := range cluster {
			if !taken[j] && within(cluster[i].Sequence, cluster[j].Sequence, maxDist, edit) {
				taken[j] = true
			}
		}
	}
	return survivors
}

// dissectDirectional absorbs a neighbour with count n only when the
// absorber holds at least 2n-1 copies (the PCR-error model: an error
// copy cannot outnumber its template). Absorption extends transitively
// from each survivor.
func dissectDirectional(cluster []trie.ClusterMember, maxDist int, edit bool) [][]byte {
	taken := make([]bool, len(cluster))
	var survivors [][]byte
	for _, i := range byCountDesc(cluster) {
		if taken[i] {
			continue
		}
		taken[i] = true
		survivors = append(survivors, cluster[i].Sequence)
		queue := []int{i}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for v := range cluster {
				if taken[v] ||
					!within(cluster[u].Sequence, cluster[v].Sequence, maxDist, edit) ||
					cluster[u].Count < 2*cluster[v].Count-1 {
					continue
				}
				taken[v] = true
				queue = append(queue, v)
			}
		}
	}
	return survivors
}
