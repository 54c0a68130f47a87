package handout

import (
	"fmt"
	"strings"
)

// Field identifies one attribute of a Record.
type Field int

const (
	FieldName Field = iota
	FieldUnit
	FieldUnitSequence
	FieldTopic
	FieldTeachers
	FieldLessonType
	FieldCourse
	FieldReleaseStart
	FieldReleaseEnd
	FieldDescription
	FieldFileName
	FieldSessionDate
	FieldPeriod
	FieldURL
	FieldTarget
	FieldTargetIcon
)

// fieldKeys are the short names used on the command line and in config files.
var fieldKeys = [...]string{
	FieldName:         "name",
	FieldUnit:         "unit",
	FieldUnitSequence: "unit_num",
	FieldTopic:        "thema",
	FieldTeachers:     "teachers",
	FieldLessonType:   "lesson_type",
	FieldCourse:       "course",
	FieldReleaseStart: "upload_date",
	FieldReleaseEnd:   "end_date",
	FieldDescription:  "explanations",
	FieldFileName:     "file_name",
	FieldSessionDate:  "date",
	FieldPeriod:       "period",
	FieldURL:          "url",
	FieldTarget:       "target",
	FieldTargetIcon:   "target_icon",
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldKeys) {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldKeys[f]
}

// ParseField looks a field up by its key name, case-insensitively.
func ParseField(key string) (Field, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for i, k := range fieldKeys {
		if k == key {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field: %q", key)
}

// ParseFields parses a comma separated field list. "all" expands to AllFields
// and an empty string to DefaultFields.
func ParseFields(list string) ([]Field, error) {
	list = strings.TrimSpace(list)
	switch strings.ToLower(list) {
	case "":
		return DefaultFields(), nil
	case "all":
		return AllFields(), nil
	}

	var fields []Field
	for _, part := range strings.Split(list, ",") {
		f, err := ParseField(part)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// DefaultFields is the column set shown when none is requested.
func DefaultFields() []Field {
	return []Field{FieldUnit, FieldTargetIcon, FieldName, FieldTeachers, FieldTopic, FieldSessionDate, FieldPeriod}
}

// AllFields lists every data field. The target icon is omitted since it
// duplicates FieldTarget.
func AllFields() []Field {
	return []Field{
		FieldName, FieldUnit, FieldUnitSequence, FieldTopic, FieldTeachers,
		FieldLessonType, FieldCourse, FieldReleaseStart, FieldReleaseEnd,
		FieldDescription, FieldFileName, FieldSessionDate, FieldPeriod,
		FieldURL, FieldTarget,
	}
}
