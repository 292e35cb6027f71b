package update

import (
	"github.com/taskflow-app/taskflowd/internal/model"
	"github.com/taskflow-app/taskflowd/internal/views"
)

var matrixOrder = []struct {
	quadrant model.Quadrant
	label    string
}{
	{model.QuadrantDo, "urgent + high priority"},
	{model.QuadrantDecide, "high priority"},
	{model.QuadrantDelegate, "urgent"},
	{model.QuadrantDelete, "everything else"},
}

func (m Model) renderMatrixView() string {
	quadrants := make([]views.MatrixQuadrantData, 0, len(matrixOrder))
	for _, q := range matrixOrder {
		items := make([]string, 0, len(m.Matrix[q.quadrant]))
		for _, t := range m.Matrix[q.quadrant] {
			line := t.Text
			if t.DueDate != "" {
				line += " due:" + t.DueDate
			}
			items = append(items, line)
		}
		quadrants = append(quadrants, views.MatrixQuadrantData{
			Name:  string(q.quadrant),
			Label: q.label,
			Items: items,
		})
	}
	return views.RenderMatrixPanel(views.MatrixPanelData{
		Date:      m.clock().Format(model.DayLayout),
		Quadrants: quadrants,
	})
}
