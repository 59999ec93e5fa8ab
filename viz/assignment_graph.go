// ABOUTME: Assignment graph generation with graphviz
// ABOUTME: Renders which employee holds which asset, from ownership and asset history
package viz

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/johanaerens/assetmanagement/models"
)

// Assignments is the data a graph is drawn from.
type Assignments struct {
	Employees []models.Employee
	Assets    []models.Asset
	Histories []models.AssetHistory
}

const dateLayout = "2006-01-02"

// Graph is rendered DOT source with its size.
type Graph struct {
	DOT   string
	Nodes int
	Edges int
}

// GenerateAssignmentGraph returns DOT source with one node per employee and
// asset. Solid edges are the current owner of an asset, labelled edges are
// asset history periods.
func GenerateAssignmentGraph(ctx context.Context, in Assignments) (string, error) {
	g, err := BuildAssignmentGraph(ctx, in)
	return g.DOT, err
}

func BuildAssignmentGraph(ctx context.Context, in Assignments) (Graph, error) {
	var out Graph
	gv, err := graphviz.New(ctx)
	if err != nil {
		return out, fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return out, fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetLayout("dot")
	graph.SetRankDir(cgraph.LRRank)

	nodes := make(map[string]*cgraph.Node)
	node := func(key, label string, shape cgraph.Shape) (*cgraph.Node, error) {
		if n, ok := nodes[key]; ok {
			return n, nil
		}
		n, err := graph.CreateNodeByName(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create node %s: %w", key, err)
		}
		n.SetLabel(label)
		n.SetShape(shape)
		nodes[key] = n
		return n, nil
	}
	employeeNode := func(e models.Employee) (*cgraph.Node, error) {
		return node(nodeKey("employee", e.ID), e.Label(), cgraph.EllipseShape)
	}
	assetNode := func(a models.Asset) (*cgraph.Node, error) {
		return node(nodeKey("asset", a.ID), a.Label(), cgraph.BoxShape)
	}

	for _, e := range in.Employees {
		if _, err := employeeNode(e); err != nil {
			return out, err
		}
	}

	for _, a := range in.Assets {
		an, err := assetNode(a)
		if err != nil {
			return out, err
		}
		if a.Employee == nil {
			continue
		}
		en, err := employeeNode(*a.Employee)
		if err != nil {
			return out, err
		}
		edge, err := graph.CreateEdgeByName("", en, an)
		if err != nil {
			return out, fmt.Errorf("failed to create edge: %w", err)
		}
		edge.SetLabel("owns")
		out.Edges++
	}

	for _, h := range in.Histories {
		if h.Asset == nil || h.Employee == nil {
			continue
		}
		en, err := employeeNode(*h.Employee)
		if err != nil {
			return out, err
		}
		an, err := assetNode(*h.Asset)
		if err != nil {
			return out, err
		}
		edge, err := graph.CreateEdgeByName(nodeKey("history", h.ID), en, an)
		if err != nil {
			return out, fmt.Errorf("failed to create edge: %w", err)
		}
		edge.SetLabel(period(h))
		out.Edges++
	}

	// Generate DOT source
	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return out, fmt.Errorf("failed to render graph: %w", err)
	}

	out.DOT = buf.String()
	out.Nodes = len(nodes)
	return out, nil
}

func nodeKey(prefix string, id *int64) string {
	if id == nil {
		return prefix + "-new"
	}
	return prefix + "-" + strconv.FormatInt(*id, 10)
}

func period(h models.AssetHistory) string {
	start, end := "?", "present"
	if h.StartDate != nil {
		start = h.StartDate.Format(dateLayout)
	}
	if h.EndDate != nil {
		end = h.EndDate.Format(dateLayout)
	}
	return start + " to " + end
}
