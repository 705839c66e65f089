package emotion

// Spec describes one emotion rendered by the booth. Label doubles as the
// key in the per-session results map and as the caption on collage cards.
type Spec struct {
	ID        string
	Label     string
	Adjective string
}

// specs is the fixed set, defined at process start. Slice order is both the
// generation queue order and the collage grid order.
var specs = []Spec{
	{ID: "happy", Label: "Happy", Adjective: "beaming with pure joy, a huge grin"},
	{ID: "sad", Label: "Sad", Adjective: "deeply sad, teary-eyed, lips trembling"},
	{ID: "angry", Label: "Angry", Adjective: "furiously angry, brows knitted, steam about to blow"},
	{ID: "surprised", Label: "Surprised", Adjective: "completely surprised, wide-eyed, mouth open"},
	{ID: "laughing", Label: "Laughing", Adjective: "laughing out loud, eyes squeezed shut"},
	{ID: "love", Label: "In Love", Adjective: "utterly lovestruck, dreamy gaze, rosy cheeks"},
}

// All returns the full emotion set in declaration order.
func All() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}

// Labels returns the display labels in declaration order.
func Labels() []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Label
	}
	return out
}

// ByID resolves a spec from its identifier, the form used in URLs.
func ByID(id string) (Spec, bool) {
	for _, s := range specs {
		if s.ID == id {
			return s, true
		}
	}
	return Spec{}, false
}

// ByLabel resolves a spec from its display label.
func ByLabel(label string) (Spec, bool) {
	for _, s := range specs {
		if s.Label == label {
			return s, true
		}
	}
	return Spec{}, false
}
