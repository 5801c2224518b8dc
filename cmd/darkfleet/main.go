// Command darkfleet runs the dark fleet AIS/SAR fusion and intelligence
// engine: streaming ingestion, SAR batch correlation, and ad hoc scoring
// against the embedded store.
package main

import "github.com/rawblock/darkfleet-engine/cmd/darkfleet/cli"

func main() {
	cli.Execute()
}
