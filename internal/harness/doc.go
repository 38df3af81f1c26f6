// Package harness runs query conformance scenarios against the local store.
//
// A scenario indexes a fixed document set, runs a sequence of queries and
// checks each result. Scenarios are data, so query behavior can be pinned
// down without writing Go for every case.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	index: people
//	documents:
//	  - {_id: a, age: 17}
//	  - {_id: b, age: 30}
//	documents_file: people.jsonl   # optional, relative to the scenario
//	steps:
//	  - name: adults
//	    query:
//	      range: {age: {gte: 18}, _name: adult}
//	    expect:
//	      total: 1
//	      hits: [b]
//	      matched: {b: [adult]}
//
// A step query is either a request ({query, from, size}) or a bare clause.
// An expect block may instead name an error substring, for queries that
// must be rejected.
//
// # Deterministic Testing
//
// Every scenario runs in a fresh in-memory database. Documents without an
// "_id" receive sequential ids (doc-001, doc-002, ...), so results and
// golden snapshots are identical across runs.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/ranges.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, scenario)
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
