// Package visualize renders a workflow's DAG as Graphviz DOT text or a JSON
// snapshot. It never shells out to a `dot` binary — DOT is always emitted
// as text for the caller to render elsewhere.
package visualize

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/flowctl/flowctl/internal/config"
	"github.com/flowctl/flowctl/internal/dag"
)

// Snapshot is the JSON-serializable view of a workflow's DAG.
type Snapshot struct {
	Workflow string         `json:"workflow"`
	Nodes    []NodeSnapshot `json:"nodes"`
	Edges    []EdgeSnapshot `json:"edges"`
}

// NodeSnapshot describes one task and its computed layer.
type NodeSnapshot struct {
	TaskID string `json:"task_id"`
	Type   string `json:"type"`
	Layer  int    `json:"layer"`
}

// EdgeSnapshot describes one dependency edge.
type EdgeSnapshot struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// BuildSnapshot assembles a Snapshot from wf's tasks/edges and the
// corresponding layer-assigned graph.
func BuildSnapshot(wf *config.Workflow, graph *dag.Graph) (Snapshot, error) {
	typeByID := make(map[string]config.TaskType, len(wf.Tasks))
	for _, task := range wf.Tasks {
		typeByID[task.ID] = task.Type
	}

	snap := Snapshot{Workflow: wf.Name}
	for _, id := range graph.NodeIDs() {
		layer, err := graph.Layer(id)
		if err != nil {
			return Snapshot{}, fmt.Errorf("visualize: %w", err)
		}
		snap.Nodes = append(snap.Nodes, NodeSnapshot{TaskID: id, Type: string(typeByID[id]), Layer: layer})
	}
	for _, edge := range wf.Edges {
		snap.Edges = append(snap.Edges, EdgeSnapshot{From: edge.From, To: edge.To})
	}
	return snap, nil
}

// JSON renders a Snapshot as indented JSON.
func JSON(wf *config.Workflow, graph *dag.Graph) ([]byte, error) {
	snap, err := BuildSnapshot(wf, graph)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(snap, "", "  ")
}

// DOT renders the workflow's DAG as Graphviz DOT text, left-to-right, one
// node per task labeled with its type, following the node/edge emission
// order convention: nodes first (sorted for determinism), then edges in
// declaration order.
func DOT(wf *config.Workflow, graph *dag.Graph) (string, error) {
	snap, err := BuildSnapshot(wf, graph)
	if err != nil {
		return "", err
	}

	nodes := append([]NodeSnapshot(nil), snap.Nodes...)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].TaskID < nodes[j].TaskID })

	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", wf.Name)
	b.WriteString("  rankdir=LR;\n")
	for _, n := range nodes {
		fmt.Fprintf(&b, "  %q [label=%q];\n", n.TaskID, fmt.Sprintf("%s (%s)", n.TaskID, n.Type))
	}
	for _, e := range snap.Edges {
		fmt.Fprintf(&b, "  %q -> %q;\n", e.From, e.To)
	}
	b.WriteString("}\n")
	return b.String(), nil
}
