// Package testing provides test utilities for the parcel module.
//
// It offers an embedded NATS server with JetStream for exercising the NATS
// sinks without external infrastructure, and a logger that writes to the
// test log. It follows Go's convention of shipping testing utilities in a
// dedicated package (similar to net/http/httptest).
//
// Example usage:
//
//	import (
//	    "testing"
//	    parceltest "github.com/arloliu/parcel/testing"
//	)
//
//	func TestMySink(t *testing.T) {
//	    _, nc := parceltest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
