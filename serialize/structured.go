package serialize

import (
	"bytes"
	"fmt"

	"github.com/google/go-cmp/cmp"

	o "github.com/launchdarkly/regression-test-harness/framework/opt"
)

// compareStructured compares a new result with a stored reference by first putting the result
// through the same serialize/deserialize cycle that produced the reference, so that both sides
// are in the serializer's generic form (for instance map[string]any rather than a struct). The
// diagnostic is a go-cmp diff, "-" lines being the reference and "+" lines the result.
func compareStructured(s Serializer, result, reference any) o.Maybe[string] {
	normalized, err := roundTrip(s, result)
	if err != nil {
		return o.Some(fmt.Sprintf("%s: %s", MismatchMarker, err))
	}
	if diff := cmp.Diff(reference, normalized); diff != "" {
		return o.Some("Difference (-reference +result):\n" + diff)
	}
	return o.None[string]()
}

func roundTrip(s Serializer, value any) (any, error) {
	var buf bytes.Buffer
	if err := s.Serialize(value, &buf); err != nil {
		return nil, err
	}
	return s.Deserialize(&buf)
}
