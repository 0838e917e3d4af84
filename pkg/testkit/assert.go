package testkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertJSONEq deep-compares two JSON documents after normalising both through
// json.Unmarshal, so key order and whitespace never matter.
func AssertJSONEq(t *testing.T, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	var expVal, actVal interface{}

	require.NoError(t, json.Unmarshal(expected, &expVal),
		"expected document is not valid JSON")

	if !assert.NoError(t, json.Unmarshal(actual, &actVal),
		"actual document is not valid JSON\nbody: %s", string(actual)) {
		return
	}

	assert.Equal(t, expVal, actVal, "JSON body mismatch")
}

// AssertBodyField unmarshals a recorded request body and checks one top-level
// field against want. Convenient for verifying what a gateway call sent.
func AssertBodyField(t *testing.T, call *RecordedCall, field string, want interface{}) {
	t.Helper()
	require.NotNil(t, call, "no request was recorded")

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(call.Body, &doc),
		"request body is not valid JSON\nbody: %s", string(call.Body))

	assert.Equal(t, want, doc[field], "field %q mismatch", field)
}

// AssertMocksAllCalled fails the test if any registered stub was never hit.
func AssertMocksAllCalled(t *testing.T, mt *MockTransport) {
	t.Helper()
	for _, err := range mt.AssertAllCalled() {
		assert.NoError(t, err)
	}
}
