// Package templates holds the canned layouts behind the "AI design" prompt.
// Matching is a keyword lookup; nothing is generated.
package templates

import (
	"context"
	"fmt"
	"strings"

	"frameboard/internal/canvas"
)

// Element is one component of a template, positioned relative to the frame
// origin.
type Element struct {
	Type       canvas.ComponentType
	X, Y       float64
	Width      float64
	Height     float64
	Content    string
	Properties canvas.Properties
}

// Template is a named frame plus the components placed inside it.
type Template struct {
	Name     string
	Keywords []string
	Width    float64
	Height   float64
	Elements []Element
}

var library = []Template{
	{
		Name:     "Login",
		Keywords: []string{"login", "log in", "sign in", "signin"},
		Width:    375, Height: 667,
		Elements: []Element{
			{Type: canvas.TypeHeading, X: 24, Y: 80, Width: 327, Height: 40, Content: "Welcome back", Properties: canvas.Properties{"level": 1, "fontSize": 28}},
			{Type: canvas.TypeInput, X: 24, Y: 160, Width: 327, Height: 44, Properties: canvas.Properties{"placeholder": "Email", "inputType": "email"}},
			{Type: canvas.TypeInput, X: 24, Y: 220, Width: 327, Height: 44, Properties: canvas.Properties{"placeholder": "Password", "inputType": "password"}},
			{Type: canvas.TypeCheckbox, X: 24, Y: 280, Width: 200, Height: 24, Content: "Remember me", Properties: canvas.Properties{"checked": false}},
			{Type: canvas.TypeButton, X: 24, Y: 330, Width: 327, Height: 48, Content: "Sign in", Properties: canvas.Properties{"backgroundColor": "#2563eb", "color": "#ffffff"}},
		},
	},
	{
		Name:     "Sign up",
		Keywords: []string{"signup", "sign up", "register", "registration"},
		Width:    375, Height: 667,
		Elements: []Element{
			{Type: canvas.TypeHeading, X: 24, Y: 60, Width: 327, Height: 40, Content: "Create account", Properties: canvas.Properties{"level": 1}},
			{Type: canvas.TypeInput, X: 24, Y: 130, Width: 327, Height: 44, Properties: canvas.Properties{"placeholder": "Full name"}},
			{Type: canvas.TypeInput, X: 24, Y: 190, Width: 327, Height: 44, Properties: canvas.Properties{"placeholder": "Email", "inputType": "email"}},
			{Type: canvas.TypeInput, X: 24, Y: 250, Width: 327, Height: 44, Properties: canvas.Properties{"placeholder": "Password", "inputType": "password"}},
			{Type: canvas.TypeCheckbox, X: 24, Y: 310, Width: 300, Height: 24, Content: "I accept the terms"},
			{Type: canvas.TypeButton, X: 24, Y: 360, Width: 327, Height: 48, Content: "Create account"},
		},
	},
	{
		Name:     "Dashboard",
		Keywords: []string{"dashboard", "admin", "analytics"},
		Width:    1280, Height: 800,
		Elements: []Element{
			{Type: canvas.TypeHeading, X: 32, Y: 24, Width: 400, Height: 40, Content: "Overview", Properties: canvas.Properties{"level": 1}},
			{Type: canvas.TypeCard, X: 32, Y: 96, Width: 380, Height: 140, Content: "Revenue"},
			{Type: canvas.TypeCard, X: 450, Y: 96, Width: 380, Height: 140, Content: "Users"},
			{Type: canvas.TypeCard, X: 868, Y: 96, Width: 380, Height: 140, Content: "Orders"},
			{Type: canvas.TypeTable, X: 32, Y: 268, Width: 1216, Height: 480, Properties: canvas.Properties{"rows": 8, "columns": 4, "headers": []string{"Order", "Customer", "Status", "Total"}}},
		},
	},
	{
		Name:     "Landing page",
		Keywords: []string{"landing", "hero", "homepage", "home page", "marketing"},
		Width:    1440, Height: 900,
		Elements: []Element{
			{Type: canvas.TypeHeading, X: 120, Y: 200, Width: 800, Height: 72, Content: "Build something great", Properties: canvas.Properties{"level": 1, "fontSize": 56}},
			{Type: canvas.TypeParagraph, X: 120, Y: 300, Width: 640, Height: 80, Content: "Everything you need to ship faster."},
			{Type: canvas.TypeButton, X: 120, Y: 410, Width: 180, Height: 52, Content: "Get started"},
			{Type: canvas.TypeImage, X: 860, Y: 160, Width: 460, Height: 400, Properties: canvas.Properties{"alt": "Product screenshot"}},
		},
	},
	{
		Name:     "Contact form",
		Keywords: []string{"contact", "feedback", "support form"},
		Width:    600, Height: 640,
		Elements: []Element{
			{Type: canvas.TypeHeading, X: 40, Y: 40, Width: 520, Height: 40, Content: "Contact us", Properties: canvas.Properties{"level": 2}},
			{Type: canvas.TypeInput, X: 40, Y: 110, Width: 520, Height: 44, Properties: canvas.Properties{"placeholder": "Name"}},
			{Type: canvas.TypeInput, X: 40, Y: 170, Width: 520, Height: 44, Properties: canvas.Properties{"placeholder": "Email", "inputType": "email"}},
			{Type: canvas.TypeSelect, X: 40, Y: 230, Width: 520, Height: 44, Properties: canvas.Properties{"options": []string{"General", "Billing", "Bug report"}, "value": "General"}},
			{Type: canvas.TypeInput, X: 40, Y: 290, Width: 520, Height: 160, Properties: canvas.Properties{"placeholder": "Message"}},
			{Type: canvas.TypeButton, X: 40, Y: 480, Width: 160, Height: 48, Content: "Send"},
		},
	},
	{
		Name:     "Settings",
		Keywords: []string{"settings", "preferences", "profile"},
		Width:    800, Height: 600,
		Elements: []Element{
			{Type: canvas.TypeHeading, X: 32, Y: 32, Width: 400, Height: 40, Content: "Settings", Properties: canvas.Properties{"level": 1}},
			{Type: canvas.TypeDivider, X: 32, Y: 88, Width: 736, Height: 1, Properties: canvas.Properties{"orientation": "horizontal"}},
			{Type: canvas.TypeCheckbox, X: 32, Y: 120, Width: 300, Height: 24, Content: "Email notifications", Properties: canvas.Properties{"checked": true}},
			{Type: canvas.TypeRadio, X: 32, Y: 164, Width: 200, Height: 24, Content: "Light theme", Properties: canvas.Properties{"group": "theme", "checked": true}},
			{Type: canvas.TypeRadio, X: 32, Y: 200, Width: 200, Height: 24, Content: "Dark theme", Properties: canvas.Properties{"group": "theme"}},
			{Type: canvas.TypeButton, X: 32, Y: 520, Width: 140, Height: 44, Content: "Save"},
		},
	},
	{
		Name:     "Flowchart",
		Keywords: []string{"flow", "diagram", "process"},
		Width:    900, Height: 500,
		Elements: []Element{
			{Type: canvas.TypeFlowShape, X: 40, Y: 200, Width: 160, Height: 80, Content: "Start", Properties: canvas.Properties{"shape": "ellipse"}},
			{Type: canvas.TypeFlowShape, X: 280, Y: 200, Width: 160, Height: 80, Content: "Process", Properties: canvas.Properties{"shape": "rectangle"}},
			{Type: canvas.TypeFlowShape, X: 520, Y: 180, Width: 120, Height: 120, Content: "Check?", Properties: canvas.Properties{"shape": "diamond"}},
			{Type: canvas.TypeFlowShape, X: 720, Y: 200, Width: 140, Height: 80, Content: "End", Properties: canvas.Properties{"shape": "ellipse"}},
		},
	},
}

// fallback is used when no keyword matches.
var fallback = Template{
	Name:   "Blank page",
	Width:  375,
	Height: 667,
	Elements: []Element{
		{Type: canvas.TypeHeading, X: 24, Y: 40, Width: 327, Height: 40, Content: "Title", Properties: canvas.Properties{"level": 1}},
		{Type: canvas.TypeParagraph, X: 24, Y: 100, Width: 327, Height: 80, Content: "Start designing here."},
	},
}

// All returns the library in match order.
func All() []Template {
	out := make([]Template, len(library))
	copy(out, library)
	return out
}

// Match returns the first template with a keyword contained in prompt,
// compared case-insensitively. ok is false when the fallback was chosen.
func Match(prompt string) (t Template, ok bool) {
	p := strings.ToLower(prompt)
	for _, t := range library {
		for _, k := range t.Keywords {
			if strings.Contains(p, k) {
				return t, true
			}
		}
	}
	return fallback, false
}

// Dispatcher is the part of canvas.Editor that Apply needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, a canvas.Action) string
	State() canvas.State
}

// Result lists what Apply created.
type Result struct {
	Template     string   `json:"template"`
	FrameID      string   `json:"frameId"`
	ComponentIDs []string `json:"componentIds"`
}

// Apply adds a frame for t at (x, y) and fills it. The frame may be moved
// right when it would overlap an existing frame, so components are placed
// relative to wherever it ended up.
func Apply(ctx context.Context, d Dispatcher, t Template, x, y float64) (Result, error) {
	frameID := d.Dispatch(ctx, canvas.AddFrame{Name: t.Name, X: x, Y: y, Width: t.Width, Height: t.Height})
	if frameID == "" {
		return Result{}, fmt.Errorf("adding frame for %q: rejected", t.Name)
	}
	f, ok := d.State().Frame(frameID)
	if !ok {
		return Result{}, fmt.Errorf("adding frame for %q: frame %s vanished", t.Name, frameID)
	}
	d.Dispatch(ctx, canvas.SetActiveFrame{ID: frameID})

	res := Result{Template: t.Name, FrameID: frameID}
	for _, el := range t.Elements {
		id := d.Dispatch(ctx, canvas.AddComponent{
			Kind:       el.Type,
			X:          f.X + el.X,
			Y:          f.Y + el.Y,
			Width:      el.Width,
			Height:     el.Height,
			Content:    el.Content,
			Properties: el.Properties.Clone(),
		})
		if id != "" {
			res.ComponentIDs = append(res.ComponentIDs, id)
		}
	}
	return res, nil
}

// Design matches prompt and applies the result to the right of every
// existing frame.
func Design(ctx context.Context, d Dispatcher, prompt string) (Result, error) {
	t, _ := Match(prompt)
	x, y := 0.0, 0.0
	for _, f := range d.State().Frames {
		if r := f.X + f.Width + canvas.DefaultFrameGap*4; r > x {
			x = r
		}
	}
	return Apply(ctx, d, t, x, y)
}
