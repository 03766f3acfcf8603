/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/andreas-jonsson/virtualps2/emulator"
	"github.com/andreas-jonsson/virtualps2/emulator/config"
	"github.com/andreas-jonsson/virtualps2/emulator/debug"
	"github.com/andreas-jonsson/virtualps2/emulator/dialog"
	"github.com/andreas-jonsson/virtualps2/emulator/trace"
	"github.com/andreas-jonsson/virtualps2/platform"
	"github.com/andreas-jonsson/virtualps2/version"
	"github.com/spf13/afero"
)

var (
	configFile,
	writeConfig,
	dumpTrace string
)

var (
	man,
	ver bool
)

var overrides = config.NewFlags(flag.CommandLine)

func init() {
	flag.BoolVar(&man, "m", false, "Open manual")
	flag.BoolVar(&ver, "v", false, "Print version information")

	flag.StringVar(&configFile, "config", "", "Settings file (default $"+config.EnvPath+")")
	flag.StringVar(&writeConfig, "write-config", "", "Write the effective settings to a file and exit")
	flag.StringVar(&dumpTrace, "dump", "", "Print a recorded bus trace and exit")
}

func main() {
	flag.Parse()

	if man {
		dialog.OpenManual()
		return
	}

	if ver {
		fmt.Printf("%s (%s)\n", version.Current.FullString(), version.Hash)
		return
	}

	if dumpTrace != "" {
		if err := dump(dumpTrace); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(-1)
		}
		return
	}

	fs := afero.NewOsFs()
	cfg, err := config.Load(fs, config.Path(configFile))
	if err != nil {
		fail(err)
	}
	overrides.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		fail(err)
	}

	if writeConfig != "" {
		if err := config.Save(fs, writeConfig, cfg); err != nil {
			fail(err)
		}
		return
	}

	if ln, err := debug.Listen(""); err != nil {
		fail(err)
	} else if ln != nil {
		defer ln.Close()
	}

	printLogo()

	configs := []platform.Config{
		platform.ConfigWithUSBDevice(cfg.USB.VID, cfg.USB.PID),
	}
	if err := platform.Start(cfg.Source, emulator.Start(cfg), configs...); err != nil {
		fail(err)
	}
}

func fail(err error) {
	dialog.ShowErrorMessage(err.Error())
	os.Exit(-1)
}

func dump(name string) error {
	fp, err := os.Open(name)
	if err != nil {
		return err
	}
	defer fp.Close()

	records, err := trace.Read(fp)
	for _, r := range records {
		fmt.Printf("%s  %v\n", r.At.Format("15:04:05.000000"), &r.PS2)
	}
	return err
}

func printLogo() {
	fmt.Print(logo)
	fmt.Println("v" + version.Current.String())
	fmt.Print(" ───────═════ " + version.Copyright + " ══════───────\n\n")
}

var logo = `
██╗   ██╗██████╗ ███████╗██████╗ 
██║   ██║██╔══██╗██╔════╝╚════██╗
██║   ██║██████╔╝███████╗ █████╔╝
╚██╗ ██╔╝██╔═══╝ ╚════██║██╔═══╝ 
 ╚████╔╝ ██║     ███████║███████╗
  ╚═══╝  ╚═╝     ╚══════╝╚══════╝`
