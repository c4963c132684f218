// Command flowdemo runs the card demo with a configurable stack.
//
//	flowdemo run --config flow.toml --script smoke.json --debug
//	flowdemo config > flow.toml
//	flowdemo easings
package main

func main() {
	Execute()
}
