package orrery

import (
	"path"
	"sort"
)

// DirectoryGraph is the directory-to-directory dependency graph,
// aggregated from file-level edges.
type DirectoryGraph struct {
	Directories []DirectoryNode
	Edges       []DirectoryEdge
}

// DirectoryNode represents one directory in the aggregated graph. Files
// at the repository root fall under ".".
type DirectoryNode struct {
	Path      string
	FileCount int
}

// DirectoryEdge represents a dependency between two directories with the
// number of file-level edges that contribute to it. Self edges count
// intra-directory references.
type DirectoryEdge struct {
	FromDir   string
	ToDir     string
	EdgeCount int
}

// DirectoryGraph aggregates file-level edges up to their containing
// directories. Callers pass the full indexed path list so directories
// whose files have no edges still appear as nodes. Output is sorted for
// deterministic rendering.
func (q *Query) DirectoryGraph(paths []string) *DirectoryGraph {
	dirFiles := map[string]int{}
	for _, p := range paths {
		dirFiles[path.Dir(p)]++
	}

	type edgeKey struct {
		from, to string
	}
	edgeCounts := map[edgeKey]int{}
	if q.graph != nil {
		for _, rel := range q.graph.Edges {
			from := path.Dir(rel.FromFile)
			to := path.Dir(rel.ToFile)
			edgeCounts[edgeKey{from: from, to: to}]++
			// Edge endpoints may name files the caller did not list.
			if _, ok := dirFiles[from]; !ok {
				dirFiles[from] = 0
			}
			if _, ok := dirFiles[to]; !ok {
				dirFiles[to] = 0
			}
		}
	}

	dirs := make([]string, 0, len(dirFiles))
	for dir := range dirFiles {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	directories := make([]DirectoryNode, 0, len(dirs))
	for _, dir := range dirs {
		directories = append(directories, DirectoryNode{Path: dir, FileCount: dirFiles[dir]})
	}

	edges := make([]DirectoryEdge, 0, len(edgeCounts))
	for ek, count := range edgeCounts {
		edges = append(edges, DirectoryEdge{FromDir: ek.from, ToDir: ek.to, EdgeCount: count})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].FromDir != edges[j].FromDir {
			return edges[i].FromDir < edges[j].FromDir
		}
		return edges[i].ToDir < edges[j].ToDir
	})

	return &DirectoryGraph{Directories: directories, Edges: edges}
}

// Cycles detects circular dependencies between files using Tarjan's
// strongly connected components algorithm. Each cycle is a list of file
// paths with the first element repeated at the end. Acyclic graphs return
// an empty list, not nil.
func (q *Query) Cycles() [][]string {
	// Tarjan wants simple adjacency; parallel edges add nothing here.
	adj := map[string][]string{}
	selfLoops := map[string]bool{}
	for _, rel := range q.Deduped() {
		if rel.FromFile == rel.ToFile {
			selfLoops[rel.FromFile] = true
		}
		adj[rel.FromFile] = append(adj[rel.FromFile], rel.ToFile)
	}

	type nodeInfo struct {
		index   int
		lowlink int
		onStack bool
	}
	info := map[string]*nodeInfo{}
	index := 0
	var stack []string
	result := [][]string{}

	var strongconnect func(v string)
	strongconnect = func(v string) {
		ni := &nodeInfo{index: index, lowlink: index, onStack: true}
		info[v] = ni
		index++
		stack = append(stack, v)

		for _, w := range adj[v] {
			wInfo, visited := info[w]
			if !visited {
				strongconnect(w)
				wInfo = info[w]
				if wInfo.lowlink < ni.lowlink {
					ni.lowlink = wInfo.lowlink
				}
			} else if wInfo.onStack {
				if wInfo.index < ni.lowlink {
					ni.lowlink = wInfo.index
				}
			}
		}

		if ni.lowlink == ni.index {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				info[w].onStack = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			// Single nodes are not cycles unless they point at themselves.
			if len(scc) > 1 || selfLoops[scc[0]] {
				// Tarjan pops in reverse; flip to natural cycle order.
				for i, j := 0, len(scc)-1; i < j; i, j = i+1, j-1 {
					scc[i], scc[j] = scc[j], scc[i]
				}
				scc = append(scc, scc[0])
				result = append(result, scc)
			}
		}
	}

	for _, node := range q.Nodes() {
		if _, visited := info[node]; !visited {
			strongconnect(node)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i][0] < result[j][0]
	})
	return result
}
