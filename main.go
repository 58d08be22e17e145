// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/Mic92/nix-hyperfine/cmd/nix-hyperfine"

func main() {
	cmd.Execute()
}
