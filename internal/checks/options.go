package checks

import (
	"fmt"
	"maps"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/copystructure"
)

// Options configures a check. Profile-level options are shared by every
// check in the profile; a check reference may override individual keys.
type Options map[string]any

// Clone returns a deep copy of o: nested maps and slices are copied too, so
// a check may modify its options freely. The result is never nil.
func (o Options) Clone() Options {
	if o == nil {
		return Options{}
	}
	c, err := copystructure.Copy(map[string]any(o))
	if err != nil {
		// Only values copystructure cannot walk get here; keep the top level
		// independent at least.
		return maps.Clone(o)
	}
	return Options(c.(map[string]any))
}

// Merge returns a new Options holding base with override applied on top.
// Neither input is modified and the result shares no nested values with them.
func Merge(base, override Options) Options {
	out := base.Clone()
	maps.Copy(out, override.Clone())
	return out
}

// DecodeOptions decodes opts into out, which must be a pointer to a struct
// using `mapstructure` tags. Keys out does not declare are ignored, since
// profile-level options are shared across checks. Scalars are converted
// loosely so values coming from environment variables or flags still decode.
func DecodeOptions(opts Options, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(opts)); err != nil {
		return fmt.Errorf("decoding options: %w", err)
	}
	return nil
}
