package entities

import "encoding/json"

// Vocabulary is one entry of a lesson. Pronunciation is the lookup key.
// Fields the client sends beyond the core ones are kept in Attributes and
// written back flat, next to the core fields.
type Vocabulary struct {
	Pronunciation string
	Word          string
	Meaning       string
	WhenToSay     string
	Attributes    map[string]any
}

func (v Vocabulary) MarshalJSON() ([]byte, error) {
	return json.Marshal(flatten(v.Attributes, map[string]any{
		"pronunciation": v.Pronunciation,
		"word":          v.Word,
		"meaning":       v.Meaning,
		"whenToSay":     v.WhenToSay,
	}))
}

func (v *Vocabulary) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	*v = Vocabulary{}
	v.Attributes = splitAttributes(raw, map[string]*string{
		"pronunciation": &v.Pronunciation,
		"word":          &v.Word,
		"meaning":       &v.Meaning,
		"whenToSay":     &v.WhenToSay,
	})
	return nil
}
