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
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/andreas-jonsson/virtualps2/version"
)

const (
	defaultVersion = "0.1.0"
	startYear      = 2020
	copyrightFmt   = "Copyright (c) %v Andreas T Jonsson"
)

func git(args ...string) string {
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// resolve picks the version from the environment, then the latest git tag.
func resolve(env string) version.Version {
	for _, str := range []string{os.Getenv(env), strings.TrimPrefix(git("describe", "--tags", "--abbrev=0"), "v")} {
		if str == "" {
			continue
		}
		v, err := version.Parse(str)
		if err != nil {
			log.Print(err)
			continue
		}
		return v
	}

	log.Printf("%s is not set and no tag was found. Defaulting to %s", env, defaultVersion)
	v, _ := version.Parse(defaultVersion)
	return v
}

func copyright() string {
	if year := time.Now().Year(); year != startYear {
		return fmt.Sprintf(copyrightFmt, fmt.Sprintf("%d-%d", startYear, year))
	}
	return fmt.Sprintf(copyrightFmt, startYear)
}

func main() {
	file := flag.String("file", "-", "Save the generated output to file.")
	pkg := flag.String("package", "version", "Package name of the generated output.")
	env := flag.String("variable", "VPS2_VERSION", "Environment variable containing the version number.")
	flag.Parse()

	hash := git("rev-parse", "HEAD")
	if hash == "" {
		log.Print("could not read Git hash")
	}

	v := resolve(*env)
	values := map[string]interface{}{
		"hash":  hash,
		"major": v.Major,
		"minor": v.Minor,
		"patch": v.Patch,
		"build": v.Build,
		"copy":  copyright(),
		"pkg":   *pkg,
	}

	tmpl := template.Must(template.New("version").Parse(content))

	fp := os.Stdout
	if *file != "-" {
		if err := os.MkdirAll(filepath.Dir(*file), 0o755); err != nil {
			log.Fatal(err)
		}
		f, err := os.Create(*file)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		fp = f
	}

	if err := tmpl.Execute(fp, values); err != nil {
		log.Fatal(err)
	}
}

var content = `/*
{{.copy}}

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

package {{.pkg}}

var (
	Current = Version{ {{.major}}, {{.minor}}, {{.patch}}, "{{.build}}" }
	Copyright = "{{.copy}}"
	Hash = "{{.hash}}"
)
`
