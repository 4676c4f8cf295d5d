// SPDX-License-Identifier: MPL-2.0

// Command luxmktplacemgr builds marketplace modules and packages them into bundles.
package main

import cmd "github.com/luxoria/luxmktplacemgr/cmd/luxmktplacemgr"

func main() {
	cmd.Execute()
}
