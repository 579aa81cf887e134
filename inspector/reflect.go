// Package inspector shows the components and computed field of a selected
// actor. Component fields are laid out from their inspect struct tags.
package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Widget selects how a component field is drawn.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetAngle
	WidgetBool
	WidgetSkip
)

var widgetsByName = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"angle": WidgetAngle,
	"bool":  WidgetBool,
	"skip":  WidgetSkip,
}

// Field is one exported component field ready to draw.
type Field struct {
	Name    string
	Value   any
	Widget  Widget
	Options map[string]string
}

// ParseTag reads `inspect:"widget[,key:value...]"`. Unknown widgets fall
// back to WidgetAuto. Recognised keys are max (meter scale) and fmt
// (label format).
func ParseTag(tag string) (Widget, map[string]string) {
	name, rest, _ := strings.Cut(tag, ",")
	widget := widgetsByName[strings.TrimSpace(name)]

	options := make(map[string]string)
	for rest != "" {
		var part string
		part, rest, _ = strings.Cut(rest, ",")
		if k, v, ok := strings.Cut(strings.TrimSpace(part), ":"); ok {
			options[k] = v
		}
	}
	return widget, options
}

// ExtractFields lists the exported fields of a component struct (or pointer
// to one), skipping those tagged skip.
func ExtractFields(component any) []Field {
	v := reflect.Indirect(reflect.ValueOf(component))
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	fields := make([]Field, 0, t.NumField())
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		widget, options := ParseTag(sf.Tag.Get("inspect"))
		if widget == WidgetSkip {
			continue
		}
		fv := v.Field(i)
		if widget == WidgetAuto {
			widget = WidgetLabel
			if fv.Kind() == reflect.Bool {
				widget = WidgetBool
			}
		}
		fields = append(fields, Field{
			Name:    sf.Name,
			Value:   fv.Interface(),
			Widget:  widget,
			Options: options,
		})
	}
	return fields
}

// FormatValue renders a field value for a label. An explicit format wins
// over String methods; enum types such as sense.Kind print their names.
func FormatValue(value any, format string) string {
	if format != "" {
		return fmt.Sprintf(format, value)
	}
	switch v := value.(type) {
	case fmt.Stringer:
		return v.String()
	case float32:
		return strconv.FormatFloat(float64(v), 'f', 2, 32)
	case string:
		if v == "" {
			return "-"
		}
		return v
	}
	return fmt.Sprint(value)
}

// GetMax returns the positive max option, or 1.
func GetMax(options map[string]string) float32 {
	if m, err := strconv.ParseFloat(options["max"], 32); err == nil && m > 0 {
		return float32(m)
	}
	return 1
}

// GetFloatValue reads the numeric component field types as float32.
func GetFloatValue(value any) (float32, bool) {
	switch v := value.(type) {
	case float32:
		return v, true
	case int:
		return float32(v), true
	}
	return 0, false
}
