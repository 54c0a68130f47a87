package handout

// Displayable is anything that can supply one rendered cell per field.
type Displayable interface {
	Field(f Field) string
}

var defaultLabels = map[Field]string{
	FieldName:         "教材名",
	FieldUnit:         "ユニット",
	FieldUnitSequence: "回",
	FieldTopic:        "講義・実習内容",
	FieldTeachers:     "担当教員",
	FieldLessonType:   "区分",
	FieldCourse:       "講座",
	FieldReleaseStart: "公開開始日",
	FieldReleaseEnd:   "公開終了日",
	FieldDescription:  "説明",
	FieldFileName:     "ファイル名",
	FieldSessionDate:  "日付",
	FieldPeriod:       "時限",
	FieldURL:          "URL",
	FieldTarget:       "対象",
	FieldTargetIcon:   "",
}

// Header is a label-only row rendered above the records.
type Header struct {
	labels map[Field]string
}

// NewHeader returns a header with the default Japanese labels.
func NewHeader() *Header {
	h := &Header{labels: make(map[Field]string, len(defaultLabels))}
	for f, l := range defaultLabels {
		h.labels[f] = l
	}
	return h
}

// Set overrides the label of f.
func (h *Header) Set(f Field, label string) {
	h.labels[f] = label
}

// Reset restores every label to its default.
func (h *Header) Reset() {
	*h = *NewHeader()
}

// Field returns the label of f.
func (h *Header) Field(f Field) string {
	return h.labels[f]
}
