package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"docgen-service-go/internal/pkg/overlay"
)

// Plan размещение подписей и печатей на готовом PDF
type Plan struct {
	PDF    string     `json:"pdf"`
	Output string     `json:"output"`
	Zoom   float64    `json:"zoom,omitempty"`
	Items  []PlanItem `json:"items"`
}

// PlanItem одно изображение. X, Y и DX, DY задаются в пикселях превью
// при масштабе плана; Width логическая ширина, пропорции сохраняются.
type PlanItem struct {
	Source string   `json:"source"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	DX     float64  `json:"dx,omitempty"`
	DY     float64  `json:"dy,omitempty"`
	Width  float64  `json:"width,omitempty"`
	Rotate float64  `json:"rotate,omitempty"`
}

func readPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	if p.PDF == "" || p.Output == "" {
		return nil, errors.New("plan must name pdf and output")
	}
	return &p, nil
}

// applyPlan открывает сессию, размещает изображения и сохраняет результат
func applyPlan(ctx context.Context, m *overlay.Manager, p *Plan) (*overlay.SaveReport, error) {
	s, err := m.Open(p.PDF)
	if err != nil {
		return nil, err
	}
	defer m.Close(s.ID())

	if p.Zoom != 0 {
		if err := s.SetZoom(p.Zoom); err != nil {
			return nil, err
		}
	}

	for i, pi := range p.Items {
		item, err := m.AddImage(ctx, s.ID(), pi.Source)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if pi.X != nil || pi.Y != nil {
			x, y := item.CanvasPosition(s.Zoom())
			if pi.X != nil {
				x = *pi.X
			}
			if pi.Y != nil {
				y = *pi.Y
			}
			if _, err := s.MoveTo(item.ID, x, y); err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		if pi.DX != 0 || pi.DY != 0 {
			if _, err := s.Move(item.ID, pi.DX, pi.DY); err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		if pi.Width > 0 {
			if _, err := s.Resize(item.ID, pi.Width); err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		if pi.Rotate != 0 {
			if _, err := s.Rotate(item.ID, pi.Rotate); err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
	}

	return m.Save(ctx, s.ID(), p.Output)
}
