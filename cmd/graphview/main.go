// Command graphview mounts a scene, replays gesture scripts against it and
// prints or streams what the engine renders.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
