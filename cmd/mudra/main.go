// Command mudra recognizes hand gestures from a camera or over HTTP.
package main

func main() {
	Execute()
}
