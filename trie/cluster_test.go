package trie

import (
	"testing"

	"github.com/rhpvorderman/fastqdedup/sequence"
)

func popAll(t *testing.T, tr *Trie, maxDist int, edit bool) [][]ClusterMember {
	t.Helper()
	var clusters [][]ClusterMember
	for tr.Len() > 0 {
		cluster, err := tr.PopCluster(maxDist, edit)
		if err != nil {
			t.Fatal(err)
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

func TestPopClusterExactDuplicates(t *testing.T) {
	tr := newTestTrie(t, "ACGT", "ACGT", "ACGA")
	clusters := popAll(t, tr, 0, false)
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}
	// ACGA seeds first: A sorts below T in first-seen index order.
	first, second := clusters[0], clusters[1]
	if len(first) != 1 || first[0].Count != 1 || string(first[0].Sequence) != "ACGA" {
		t.Errorf("first cluster = %v, want [(1, ACGA)]", first)
	}
	if len(second) != 1 || second[0].Count != 2 || string(second[0].Sequence) != "ACGT" {
		t.Errorf("second cluster = %v, want [(2, ACGT)]", second)
	}
	if tr.Len() != 0 {
		t.Errorf("Len() = %d after popping everything", tr.Len())
	}
}

func TestPopClusterHamming(t *testing.T) {
	tr := newTestTrie(t, "AAA", "AAC", "AAG", "TTT")
	cluster, err := tr.PopCluster(1, false)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]int{}
	for _, m := range cluster {
		got[string(m.Sequence)] = m.Count
	}
	want := map[string]int{"AAA": 1, "AAC": 1, "AAG": 1}
	if len(got) != len(want) {
		t.Fatalf("cluster = %v, want members %v", cluster, want)
	}
	for s, count := range want {
		if got[s] != count {
			t.Errorf("member %q has count %d, want %d", s, got[s], count)
		}
	}
	// The seed comes first and the order is stable.
	if string(cluster[0].Sequence) != "AAA" {
		t.Errorf("seed = %q, want AAA", cluster[0].Sequence)
	}

	cluster, err = tr.PopCluster(1, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(cluster) != 1 || string(cluster[0].Sequence) != "TTT" {
		t.Errorf("second cluster = %v, want [(1, TTT)]", cluster)
	}
	if _, err := tr.PopCluster(1, false); err == nil {
		t.Error("PopCluster on drained trie did not fail")
	}
}

// Chained neighbours must land in one cluster even when the ends are
// further apart than the budget: the component is connected, not a
// ball around the seed.
func TestPopClusterTransitive(t *testing.T) {
	tr := newTestTrie(t, "AAAA", "AAAT", "AATT", "ATTT", "TTTT", "CCCC")
	cluster, err := tr.PopCluster(1, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(cluster) != 5 {
		t.Fatalf("cluster size = %d, want 5: %v", len(cluster), cluster)
	}
	for i, m := range cluster {
		near := false
		for j, o := range cluster {
			if i != j && sequence.WithinHamming(m.Sequence, o.Sequence, 1) {
				near = true
				break
			}
		}
		if !near {
			t.Errorf("member %q has no neighbour within the cluster", m.Sequence)
		}
	}
	// Exhaustivity: nothing left in the trie neighbours the cluster.
	rest := popAll(t, tr, 1, false)
	for _, c := range rest {
		for _, m := range c {
			for _, popped := range cluster {
				if sequence.WithinHamming(m.Sequence, popped.Sequence, 1) {
					t.Errorf("%q stayed behind within distance 1 of popped %q", m.Sequence, popped.Sequence)
				}
			}
		}
	}
}

func TestPopClusterEdit(t *testing.T) {
	tr := newTestTrie(t, "ACG", "ACGT", "TTTTTT")
	cluster, err := tr.PopCluster(1, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(cluster) != 2 {
		t.Fatalf("cluster = %v, want ACG and ACGT together", cluster)
	}
	if string(cluster[0].Sequence) != "ACG" || string(cluster[1].Sequence) != "ACGT" {
		t.Errorf("cluster = %v, want [(1, ACG), (1, ACGT)]", cluster)
	}
	cluster, err = tr.PopCluster(1, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(cluster) != 1 || string(cluster[0].Sequence) != "TTTTTT" {
		t.Errorf("second cluster = %v, want [(1, TTTTTT)]", cluster)
	}
}

// Popping with distance 0 drains duplicate buckets one sequence at a
// time and leaves the trie consistent throughout.
func TestPopClusterDrainsCounts(t *testing.T) {
	seqs := []string{"AC", "AC", "AG", "AG", "AG", "CA"}
	tr := newTestTrie(t, seqs...)
	total := 0
	for _, cluster := range popAll(t, tr, 0, false) {
		if len(cluster) != 1 {
			t.Errorf("distance-0 cluster has %d members", len(cluster))
		}
		total += cluster[0].Count
	}
	if total != len(seqs) {
		t.Errorf("popped %d sequences in total, want %d", total, len(seqs))
	}
}
