// coresched manages core scheduling cookies for tasks.
package main

import "github.com/ppiankov/coresched/internal/cli"

func main() {
	cli.Execute()
}
