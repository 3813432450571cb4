package upsert

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"github.com/forgeworks/pagebridge/pkg/recordstore"
)

// Skip reasons reported per field. These are machine-readable and stable:
// callers key self-correction logic off them.
const (
	SkipUnknownProperty = "unknown_property"
	SkipUnsupportedType = "unsupported_type"
	SkipUnknownOption   = "unknown_option"
	SkipInvalidText     = "invalid_text"
	SkipInvalidDate     = "invalid_date"
	SkipInvalidNumber   = "invalid_number"
	SkipInvalidURL      = "invalid_url"
	SkipUnknownPeople   = "unknown_people"
	SkipInvalidFiles    = "invalid_files"
	SkipInvalidRelation = "invalid_relation"
)

// ErrEmptyTitle is the rejection for an empty title value. A record cannot
// exist without a title, so this is the one input error that does not
// degrade to a skip.
var ErrEmptyTitle = errors.New("title value is empty")

// SkipDetail explains why a field was not applied. Available carries the
// valid option list for enumerated kinds; Type carries the unsupported
// property kind.
type SkipDetail struct {
	Reason    string   `json:"reason"`
	Available []string `json:"available,omitempty"`
	Type      string   `json:"type,omitempty"`
}

// Outcome is the result of building one property value. Exactly one of
// Payload, Skip, and Reject is set.
type Outcome struct {
	Payload *recordstore.PropertyValue
	Skip    *SkipDetail
	Reject  error
}

// Applied reports whether the field produced a payload.
func (o Outcome) Applied() bool { return o.Payload != nil }

func applied(pv recordstore.PropertyValue) Outcome {
	return Outcome{Payload: &pv}
}

func skipped(reason string) Outcome {
	return Outcome{Skip: &SkipDetail{Reason: reason}}
}

func skippedOptions(reason string, available []string) Outcome {
	return Outcome{Skip: &SkipDetail{Reason: reason, Available: available}}
}

func rejected(err error) Outcome {
	return Outcome{Reject: err}
}

// Builder converts raw input values into typed property payloads, one
// schema descriptor at a time. The remote schema is unknown until runtime,
// so conversion is a dispatch over the descriptor's kind tag. Malformed
// input never produces a Go error: every outcome is a structured value, so
// the orchestrator can aggregate partial success.
type Builder struct {
	directory *Directory
}

// NewBuilder creates a Builder. The directory resolves people emails to
// user ids and may be nil when people fields are never used.
func NewBuilder(directory *Directory) *Builder {
	return &Builder{directory: directory}
}

// Build converts one raw field value against its schema descriptor.
func (b *Builder) Build(ctx context.Context, desc recordstore.PropertyDescriptor, raw interface{}) Outcome {
	switch desc.Type {
	case recordstore.KindTitle:
		return b.buildTitle(raw)
	case recordstore.KindRichText:
		return b.buildRichText(raw)
	case recordstore.KindSelect:
		return b.buildSelect(desc, raw)
	case recordstore.KindStatus:
		return b.buildStatus(desc, raw)
	case recordstore.KindMultiSelect:
		return b.buildMultiSelect(desc, raw)
	case recordstore.KindDate:
		return b.buildDate(raw)
	case recordstore.KindNumber:
		return b.buildNumber(raw)
	case recordstore.KindCheckbox:
		return b.buildCheckbox(raw)
	case recordstore.KindURL:
		return b.buildURL(raw)
	case recordstore.KindPeople:
		return b.buildPeople(ctx, raw)
	case recordstore.KindFiles:
		return b.buildFiles(raw)
	case recordstore.KindRelation:
		return b.buildRelation(raw)
	default:
		return Outcome{Skip: &SkipDetail{Reason: SkipUnsupportedType, Type: desc.Type}}
	}
}

func (b *Builder) buildTitle(raw interface{}) Outcome {
	text := strings.TrimSpace(scalarText(raw))
	if text == "" {
		return rejected(ErrEmptyTitle)
	}
	return applied(recordstore.PropertyValue{Title: recordstore.NewRichText(text)})
}

func (b *Builder) buildRichText(raw interface{}) Outcome {
	text := scalarText(raw)
	if text == "" && !isScalar(raw) {
		return skipped(SkipInvalidText)
	}
	return applied(recordstore.PropertyValue{RichText: recordstore.NewRichText(text)})
}

func (b *Builder) buildSelect(desc recordstore.PropertyDescriptor, raw interface{}) Outcome {
	options := desc.OptionNames()
	name, ok := matchOption(options, scalarText(raw))
	if !ok {
		return skippedOptions(SkipUnknownOption, options)
	}
	return applied(recordstore.PropertyValue{Select: &recordstore.Option{Name: name}})
}

func (b *Builder) buildStatus(desc recordstore.PropertyDescriptor, raw interface{}) Outcome {
	options := desc.OptionNames()
	name, ok := matchOption(options, scalarText(raw))
	if !ok {
		return skippedOptions(SkipUnknownOption, options)
	}
	return applied(recordstore.PropertyValue{Status: &recordstore.Option{Name: name}})
}

func (b *Builder) buildMultiSelect(desc recordstore.PropertyDescriptor, raw interface{}) Outcome {
	options := desc.OptionNames()
	var selected []recordstore.Option
	for _, v := range valueSlice(raw) {
		if name, ok := matchOption(options, scalarText(v)); ok {
			selected = append(selected, recordstore.Option{Name: name})
		}
	}
	// Invalid elements are filtered, not fatal: the valid subset is applied.
	if len(selected) == 0 {
		return skippedOptions(SkipUnknownOption, options)
	}
	return applied(recordstore.PropertyValue{MultiSelect: selected})
}

func (b *Builder) buildDate(raw interface{}) Outcome {
	switch v := raw.(type) {
	case string:
		t, err := dateparse.ParseAny(v)
		if err != nil {
			return skipped(SkipInvalidDate)
		}
		return applied(recordstore.PropertyValue{Date: &recordstore.DateValue{Start: formatDate(t)}})
	case map[string]interface{}:
		var in dateInput
		cfg := &mapstructure.DecoderConfig{Result: &in, TagName: "json"}
		dec, err := mapstructure.NewDecoder(cfg)
		if err == nil {
			err = dec.Decode(v)
		}
		if err != nil || in.Start == "" {
			return skipped(SkipInvalidDate)
		}
		return applied(recordstore.PropertyValue{Date: &recordstore.DateValue{
			Start:    in.Start,
			End:      in.End,
			TimeZone: in.TimeZone,
		}})
	default:
		return skipped(SkipInvalidDate)
	}
}

func (b *Builder) buildNumber(raw interface{}) Outcome {
	// Strict: numeric-looking strings are not coerced. String-to-number
	// coercion on user input is error-prone, so only real numbers pass.
	n, ok := numeric(raw)
	if !ok {
		return skipped(SkipInvalidNumber)
	}
	return applied(recordstore.PropertyValue{Number: &n})
}

func (b *Builder) buildCheckbox(raw interface{}) Outcome {
	v := truthy(raw)
	return applied(recordstore.PropertyValue{Checkbox: &v})
}

func (b *Builder) buildURL(raw interface{}) Outcome {
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return skipped(SkipInvalidURL)
	}
	return applied(recordstore.PropertyValue{URL: &s})
}

func (b *Builder) buildPeople(ctx context.Context, raw interface{}) Outcome {
	var refs []recordstore.UserRef
	for _, v := range valueSlice(raw) {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		switch {
		case strings.Contains(s, "@"):
			if b.directory == nil {
				continue
			}
			if id, ok := b.directory.Lookup(ctx, s); ok {
				refs = append(refs, recordstore.UserRef{ID: id})
			}
		default:
			if id, ok := canonicalID(s); ok {
				refs = append(refs, recordstore.UserRef{ID: id})
			}
		}
	}
	// Unresolvable entries are dropped rather than failing the field.
	if len(refs) == 0 {
		return skipped(SkipUnknownPeople)
	}
	return applied(recordstore.PropertyValue{People: refs})
}

// dateInput is the object form of a date entry: {start, end?, timezone?}.
// The input key is "timezone", unlike the provider's wire key, so it is
// decoded separately from the wire type.
type dateInput struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	TimeZone string `json:"timezone"`
}

// fileInput is the object form of a files entry: {url|href, name?}.
type fileInput struct {
	URL  string `json:"url"`
	Href string `json:"href"`
	Name string `json:"name"`
}

func (b *Builder) buildFiles(raw interface{}) Outcome {
	var files []recordstore.FileValue
	for _, v := range valueSlice(raw) {
		switch fv := v.(type) {
		case string:
			if fv = strings.TrimSpace(fv); fv != "" {
				files = append(files, newExternalFile(fv, ""))
			}
		case map[string]interface{}:
			var in fileInput
			cfg := &mapstructure.DecoderConfig{Result: &in, TagName: "json"}
			dec, err := mapstructure.NewDecoder(cfg)
			if err == nil {
				err = dec.Decode(fv)
			}
			if err != nil {
				continue
			}
			u := in.URL
			if u == "" {
				u = in.Href
			}
			if u != "" {
				files = append(files, newExternalFile(u, in.Name))
			}
		}
	}
	if len(files) == 0 {
		return skipped(SkipInvalidFiles)
	}
	return applied(recordstore.PropertyValue{Files: files})
}

func (b *Builder) buildRelation(raw interface{}) Outcome {
	var refs []recordstore.PageRef
	for _, v := range valueSlice(raw) {
		var s string
		switch rv := v.(type) {
		case string:
			s = rv
		case map[string]interface{}:
			s, _ = rv["id"].(string)
		}
		if id, ok := canonicalID(s); ok {
			refs = append(refs, recordstore.PageRef{ID: id})
		}
	}
	if len(refs) == 0 {
		return skipped(SkipInvalidRelation)
	}
	return applied(recordstore.PropertyValue{Relation: refs})
}

// matchOption matches a value against the option list case-insensitively and
// returns the canonical option name.
func matchOption(options []string, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	for _, o := range options {
		if strings.EqualFold(o, value) {
			return o, true
		}
	}
	return "", false
}

// canonicalID normalizes an identifier to dashed UUID form. Accepts both
// dashed and bare 32-hex forms; anything else is not an id.
func canonicalID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return u.String(), true
}

// newExternalFile builds a files entry, inferring a display name from the
// URL path segment when none is given. Names are capped at 100 characters,
// the provider's limit.
func newExternalFile(rawURL, name string) recordstore.FileValue {
	if name == "" {
		if u, err := url.Parse(rawURL); err == nil {
			name = path.Base(u.Path)
			if name == "." || name == "/" || name == "" {
				name = u.Host
			}
		}
		if name == "" {
			name = "file"
		}
	}
	if len(name) > 100 {
		name = name[:100]
	}
	return recordstore.FileValue{
		Type:     "external",
		Name:     name,
		External: &recordstore.ExternalFile{URL: rawURL},
	}
}

// valueSlice views a raw value as a slice: arrays pass through, nil is
// empty, and any other value is a one-element slice.
func valueSlice(raw interface{}) []interface{} {
	switch v := raw.(type) {
	case nil:
		return nil
	case []interface{}:
		return v
	case []string:
		out := make([]interface{}, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	default:
		return []interface{}{v}
	}
}

// scalarText renders a scalar raw value as text. Non-scalar values yield "".
func scalarText(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func isScalar(raw interface{}) bool {
	switch raw.(type) {
	case string, float64, int, int64, bool:
		return true
	}
	return false
}

// numeric extracts a float from any numeric Go representation. Strings never
// match.
func numeric(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// truthy applies loose boolean conversion: nil, false, zero, and the empty
// string are false; everything else is true.
func truthy(raw interface{}) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	}
	return true
}

// formatDate renders a parsed time as a date-only string when it carries no
// time component, else full RFC 3339.
func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}
