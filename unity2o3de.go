package main

import (
	"flag"
	"log"
	"strings"

	"github.com/mogaika/unity2o3de/config"
	"github.com/mogaika/unity2o3de/convert"
	"github.com/mogaika/unity2o3de/materials"
	"github.com/mogaika/unity2o3de/meshproc"
	"github.com/mogaika/unity2o3de/o3de/prefabdb"
	"github.com/mogaika/unity2o3de/unity/assetdb"
	"github.com/mogaika/unity2o3de/utils"
	"github.com/mogaika/unity2o3de/web"
)

func main() {
	var src, out, project, baker, prefabdirs, addr, settingsPath string
	var verbose bool
	flag.StringVar(&src, "src", "", "Path to source project assets")
	flag.StringVar(&out, "out", "", "Path to output project root")
	flag.StringVar(&project, "project", "project", "Target project name used in asset hints")
	flag.StringVar(&baker, "baker", "", "Path to external mesh baker binary (optional)")
	flag.StringVar(&prefabdirs, "prefabdirs", "", "Comma-separated directories of already converted prefabs")
	flag.StringVar(&addr, "i", "", "Address of status server, empty to disable")
	flag.StringVar(&settingsPath, "settings", "unity2o3de.json", "Path to settings file")
	flag.BoolVar(&verbose, "verbose", false, "Dump the run summary structure")
	flag.Parse()

	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		log.Fatal(err)
	}
	if src == "" {
		src = settings.SourcePath
	}
	if out == "" {
		out = settings.OutputPath
	}
	if baker == "" {
		baker = settings.BakerPath
	}

	if src == "" || out == "" {
		flag.PrintDefaults()
		return
	}

	settings.SourcePath = src
	settings.OutputPath = out
	settings.BakerPath = baker
	if err := settings.Save(settingsPath); err != nil {
		log.Printf("[main] Failed to save settings: %v", err)
	}

	config.SetProjectName(project)

	assets, err := assetdb.Build(src)
	if err != nil {
		log.Fatal(err)
	}

	prefabs := prefabdb.New()
	for _, dir := range strings.Split(prefabdirs, ",") {
		if dir = strings.TrimSpace(dir); dir == "" {
			continue
		}
		if _, err := prefabs.AddSearchDirectory(dir); err != nil {
			log.Printf("[main] %v", err)
		}
	}

	c := convert.NewConverter(assets, prefabs,
		materials.NewTranslator(assets, out),
		meshproc.NewProcessor(assets, out, baker), out)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := c.ProcessTree(src); err != nil {
			log.Printf("[main] %v", err)
		}
		if verbose {
			utils.Dump(c.Summary())
		}
	}()

	if addr != "" {
		// server keeps running after conversion so results stay inspectable
		if err := web.StartServer(addr, c); err != nil {
			log.Fatal(err)
		}
	}
	<-done
}
