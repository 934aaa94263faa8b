// Package harness runs scripted configuration sessions from YAML scenarios
// and checks them against assertions and golden traces.
//
// # Scenario Format
//
//	name: cheapest_build
//	description: "Walk to the cheapest configuration"
//	catalog: ../catalogs/sample.yaml   # optional, relative to the scenario file
//	strategy: domain                   # domain | solution
//	budget: "900"                      # optional ceiling
//	session_id: scenario-cheapest      # optional fixed session id
//	flow:
//	  - choose: cpu-2
//	    expect:
//	      outcome: ok                  # ok | rejected | failed | terminal
//	      offered: [cpu-1, cpu-2]      # candidates offered before the choice
//	  - restart: true
//	assertions:
//	  - type: trace_contains
//	    kind: reject
//	    id: mb-3
//	  - type: session_state
//	    state: complete
//	    total: "820.00"
//	  - type: final_state
//	    table: configurations
//	    expect: { total_cents: 82000 }
//
// Without a catalog the built-in sample catalog of internal/testutil is used.
//
// # Assertion Types
//
//   - trace_contains: a step of the given kind (and id, category) exists
//   - trace_order: steps appear in the given order ("kind" or "kind:id")
//   - trace_count: exactly N steps of the given kind
//   - session_state: final session state, total and chosen parts
//   - final_state: queries a store table and checks a single row
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory SQLite store with a fixed
// session id, so the same scenario always yields byte-identical traces.
// Those traces are compared with golden files via RunWithGolden.
package harness
