package helpers

import (
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalizedJSONString(t *testing.T) {
	value := ldvalue.Parse([]byte(`{"b":[{"y":1,"x":2}],"a":"s","c":null}`))
	assert.Equal(t, `{"a":"s","b":[{"x":2,"y":1}],"c":null}`, CanonicalizedJSONString(value))
	assert.Equal(t, `3`, CanonicalizedJSONString(ldvalue.Int(3)))
}
