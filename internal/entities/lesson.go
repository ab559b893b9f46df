package entities

import (
	"encoding/json"
	"math"
)

// Lesson is a titled, ordered list of vocabulary entries.
type Lesson struct {
	ID           string
	LessonName   string
	LessonNo     int
	AdminEmail   string
	Vocabularies []Vocabulary
	Attributes   map[string]any
}

func (l Lesson) MarshalJSON() ([]byte, error) {
	vocabularies := l.Vocabularies
	if vocabularies == nil {
		vocabularies = []Vocabulary{}
	}
	core := map[string]any{
		"_id":          l.ID,
		"lessonName":   l.LessonName,
		"adminEmail":   l.AdminEmail,
		"vocabularies": vocabularies,
	}
	if l.LessonNo != 0 {
		core["lessonNo"] = l.LessonNo
	}
	return json.Marshal(flatten(l.Attributes, core))
}

func (l *Lesson) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	*l = Lesson{}

	if no, ok := raw["lessonNo"].(float64); ok && isIntegral(no) {
		l.LessonNo = int(no)
		delete(raw, "lessonNo")
	}

	if vocab, ok := raw["vocabularies"]; ok && vocab != nil {
		encoded, err := json.Marshal(vocab)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(encoded, &l.Vocabularies); err != nil {
			return err
		}
	}
	delete(raw, "vocabularies")

	l.Attributes = splitAttributes(raw, map[string]*string{
		"_id":        &l.ID,
		"lessonName": &l.LessonName,
		"adminEmail": &l.AdminEmail,
	})
	return nil
}

// isIntegral reports whether f is a whole number that fits in an int.
// Anything else stays in Attributes as sent.
func isIntegral(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt && f < math.MaxInt
}
