package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		key     string
		value   string
		want    interface{}
		wantErr string
	}{
		"bool":             {key: "plain", value: "TRUE", want: true},
		"bad bool":         {key: "debug", value: "yes", wantErr: "invalid boolean"},
		"int":              {key: "max_width", value: "72", want: 72},
		"duration":         {key: "watch.debounce", value: "90s", want: "1m30s"},
		"bad duration":     {key: "watch.debounce", value: "soon", wantErr: "invalid duration"},
		"enum":             {key: "output", value: "markdown", want: "markdown"},
		"bad enum":         {key: "output", value: "html", wantErr: "valid options: text, markdown, json, yaml"},
		"free-form string": {key: "ref", value: "release/2.x", want: "release/2.x"},
		"unknown":          {key: "colour", value: "x", wantErr: "unknown configuration key: colour"},
		"duration for int": {key: "max_width", value: "5s", wantErr: "5s looks like a duration but max_width expects int"},
		"int for bool":     {key: "plain", value: "1", wantErr: "1 looks like a int but plain expects bool"},
		"int for duration": {key: "watch.debounce", value: "300", wantErr: "300 looks like a int but watch.debounce expects duration"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ValidateValue(tt.key, tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Parsed)
			assert.Equal(t, tt.value, got.Raw)
		})
	}
}

func TestValidateValueHintsOnlyForOtherTypes(t *testing.T) {
	_, err := ValidateValue("max_width", "wide")
	require.Error(t, err)
	assert.Equal(t, `invalid integer: "wide"`, err.Error())
}

func TestValidateFloatSchema(t *testing.T) {
	schema := ConfigKeySchema{Path: "ratio", Type: TypeFloat}

	got, err := validateAgainstSchema(schema, "0.25")
	require.NoError(t, err)
	assert.Equal(t, 0.25, got.Parsed)

	_, err = validateAgainstSchema(schema, "quarter")
	assert.ErrorContains(t, err, "invalid float")
}

func TestInferType(t *testing.T) {
	tests := map[string]ConfigValueType{
		"true":  TypeBool,
		"12":    TypeInt,
		"250ms": TypeDuration,
		"git":   TypeString,
	}
	for in, want := range tests {
		assert.Equal(t, want, InferType(in), in)
		assert.NotEqual(t, "unknown", want.String())
	}
}

func TestSortedKeys(t *testing.T) {
	keys := SortedKeys()
	require.Len(t, keys, len(KnownKeys))
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, "watch.debounce")
}
