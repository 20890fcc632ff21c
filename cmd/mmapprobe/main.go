// Command mmapprobe exercises the mmapalloc backend on the current machine:
// it reports the page size and maps, touches, resizes and releases memory
// while watching the process resident set.
package main

func main() {
	execute()
}
