// ABOUTME: Pipeline graph generation from synchronized collections
// ABOUTME: Renders the kanban funnel with deals and their contacts as a graphviz document
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/funilhq/funil/models"
	"github.com/funilhq/funil/views"
)

// PipelineGraph renders the deal funnel: one box per column in board order,
// each deal attached to its column, each contact attached to its deals.
func PipelineGraph(deals []models.Deal, contacts []models.Contact) (string, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer func() {
		if err := gv.Close(); err != nil {
			fmt.Printf("Error closing graphviz: %v\n", err)
		}
	}()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() {
		if err := graph.Close(); err != nil {
			fmt.Printf("Error closing graph: %v\n", err)
		}
	}()

	graph.SetLabel("Pipeline")
	graph.SetRankDir(cgraph.LRRank)

	totals := make(map[models.Column]views.ColumnTotal)
	for _, t := range views.PipelineTotals(deals) {
		totals[t.Column] = t
	}

	// Column boxes chained in board order
	columnNodes := make(map[models.Column]*cgraph.Node)
	var prev *cgraph.Node
	for _, column := range models.Columns() {
		node, err := graph.CreateNodeByName(fmt.Sprintf("column_%s", column))
		if err != nil {
			return "", fmt.Errorf("failed to create column node: %w", err)
		}
		t := totals[column]
		node.SetLabel(fmt.Sprintf("%s\n%d deals\n%s", column, t.Count, formatBRL(t.Value)))
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor("lightblue")
		columnNodes[column] = node

		if prev != nil {
			edge, err := graph.CreateEdgeByName("flow", prev, node)
			if err != nil {
				return "", fmt.Errorf("failed to create flow edge: %w", err)
			}
			edge.SetStyle("bold")
		}
		prev = node
	}

	names := make(map[int64]string, len(contacts))
	for _, contact := range contacts {
		names[contact.ID] = contact.Name
	}

	// Contact nodes are created lazily, only when a deal references them
	contactNodes := make(map[int64]*cgraph.Node)

	for _, deal := range deals {
		node, err := graph.CreateNodeByName(fmt.Sprintf("deal_%d", deal.ID))
		if err != nil {
			return "", fmt.Errorf("failed to create deal node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%s\n(%s)", deal.Title, formatBRL(deal.Value), deal.Priority))
		node.SetShape("diamond")
		node.SetStyle("filled")
		node.SetFillColor("lightyellow")

		if columnNode, ok := columnNodes[deal.Column]; ok {
			edge, err := graph.CreateEdgeByName("in", node, columnNode)
			if err != nil {
				return "", fmt.Errorf("failed to create column edge: %w", err)
			}
			edge.SetStyle("dashed")
		}

		name, known := names[deal.ContactID]
		if !known {
			continue
		}
		contactNode, ok := contactNodes[deal.ContactID]
		if !ok {
			contactNode, err = graph.CreateNodeByName(fmt.Sprintf("contact_%d", deal.ContactID))
			if err != nil {
				return "", fmt.Errorf("failed to create contact node: %w", err)
			}
			contactNode.SetLabel(name)
			contactNode.SetShape("ellipse")
			contactNode.SetStyle("filled")
			contactNode.SetFillColor("lightgreen")
			contactNodes[deal.ContactID] = contactNode
		}
		edge, err := graph.CreateEdgeByName("owns", contactNode, node)
		if err != nil {
			return "", fmt.Errorf("failed to create contact edge: %w", err)
		}
		edge.SetLabel("deal")
		edge.SetStyle("dotted")
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}

// formatBRL renders a deal value compactly for labels.
func formatBRL(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("R$ %.1fk", v/1000)
	}
	return fmt.Sprintf("R$ %.0f", v)
}
