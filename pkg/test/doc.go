/*
Package test provides testing utilities for the integration bus.

This package includes:
  - Suite: Base test suite with context and testify integration

Usage:

	import "github.com/chris-alexander-pop/integration-bus/pkg/test"

	type MyTestSuite struct {
		test.Suite
	}

	func (s *MyTestSuite) TestSomething() {
		s.NoError(doSomething(s.Ctx))
	}

	func TestMySuite(t *testing.T) {
		test.Run(t, new(MyTestSuite))
	}
*/
package test
