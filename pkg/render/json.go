package render

import "encoding/json"

type jsonOutput struct {
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Widows int       `json:"widows"`
	Rows   [][]int   `json:"rows"`
	Boxes  []jsonBox `json:"boxes"`
}

type jsonBox struct {
	Index       int     `json:"index"`
	Path        string  `json:"path,omitempty"`
	Title       string  `json:"title,omitempty"`
	Left        float64 `json:"left"`
	Top         float64 `json:"top"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	Forced      bool    `json:"forced_aspect_ratio,omitempty"`
}

// RenderJSON writes the layout as indented JSON. Coordinates are not
// rounded.
func RenderJSON(l Layout) ([]byte, error) {
	out := jsonOutput{
		Width:  l.Width,
		Height: l.Result.ContainerHeight,
		Widows: l.Result.WidowCount,
		Rows:   l.Result.Rows(),
		Boxes:  make([]jsonBox, len(l.Result.Boxes)),
	}
	if out.Rows == nil {
		out.Rows = [][]int{}
	}
	for i, b := range l.Result.Boxes {
		img := l.image(i)
		out.Boxes[i] = jsonBox{
			Index:       i,
			Path:        img.Path,
			Title:       img.Meta.Title,
			Left:        b.Left,
			Top:         b.Top,
			Width:       b.Width,
			Height:      b.Height,
			AspectRatio: b.AspectRatio,
			Forced:      b.ForcedAspectRatio,
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
