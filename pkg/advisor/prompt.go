// Package advisor asks a chat-completion model for manufacturing guidance
// about an analyzed mesh and streams the answer back as it is generated.
package advisor

import (
	"fmt"
	"slices"
	"strings"
	"text/template"
)

// Choices offered to the user.
var (
	Materials = []string{"Plastic", "Metal", "Resin", "Composite", "Other"}
	Methods   = []string{"3D Printing", "CNC Machining", "Injection Molding", "Casting"}
	Goals     = []string{"Prototyping", "Mass Production", "General recommendations for manufacturing"}
)

// DefaultGoal is used when the request leaves Goal empty.
const DefaultGoal = "General recommendations for manufacturing"

// Request describes the mesh and what the user wants to do with it.
// Material, Methods and Goal are optional.
type Request struct {
	Description string   `json:"description"`
	Material    string   `json:"material"`
	Methods     []string `json:"methods"`
	Goal        string   `json:"goal"`
	VertexCount int      `json:"vertexCount"`
	FaceCount   int      `json:"faceCount"`
}

// Validate rejects choices outside the offered lists.
func (r Request) Validate() error {
	if r.Material != "" && !slices.Contains(Materials, r.Material) {
		return fmt.Errorf("unknown material %q", r.Material)
	}
	for _, m := range r.Methods {
		if !slices.Contains(Methods, m) {
			return fmt.Errorf("unknown manufacturing method %q", m)
		}
	}
	if r.Goal != "" && !slices.Contains(Goals, r.Goal) {
		return fmt.Errorf("unknown goal %q", r.Goal)
	}
	if r.VertexCount < 0 || r.FaceCount < 0 {
		return fmt.Errorf("negative geometry counts")
	}
	return nil
}

var promptTmpl = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`You are an expert manufacturing consultant. Based on the provided 3D model and analysis goal, provide clear, actionable guidance on the best manufacturing technology, sub-technology (if applicable), and material to use. Also discuss the manufacturing cost.
If the user has not specified manufacturing methods or material, recommend the most suitable options based on the analysis goal and model geometry.
Name a specific technology together with a specific material in the final recommendation.
If the selected manufacturing method and material are not feasible for the selected goal, say plainly that they are not recommended and give an alternative method and material with an explanation.
Prefer standard materials that are popular and available.
Use headings as needed.
Focus on the chosen analysis goal: "{{.Goal}}".
Here is the provided information:
- Model Description: {{with .Description}}{{.}}{{else}}No description provided{{end}}
- Target Manufacturing Methods Selected: {{with .Methods}}{{join . ", "}}{{else}}None selected{{end}}
- Material Selected: {{with .Material}}{{.}}{{else}}None selected{{end}}
- Model Geometry:
  - Vertices: {{.VertexCount}}
  - Faces: {{.FaceCount}}
- Analysis Goal: {{.Goal}}
Provide your guidance in concise bullet points or numbered list.
`))

// BuildPrompt renders the user message sent to the model.
func BuildPrompt(r Request) string {
	if r.Goal == "" {
		r.Goal = DefaultGoal
	}
	r.Description = strings.TrimSpace(r.Description)
	var b strings.Builder
	// The template only references Request fields; Execute cannot fail.
	_ = promptTmpl.Execute(&b, r)
	return b.String()
}
