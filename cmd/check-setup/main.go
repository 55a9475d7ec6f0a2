// Command check-setup verifies that a Vera Navigator installation is
// complete: the config parses, the model files are on disk, and the
// companion services answer their health endpoints.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/veranav/go-vera/internal/config"
	"github.com/veranav/go-vera/internal/httpc"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("  Vera Navigator - System Check")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	allOK := true

	fmt.Println("Configuration:")
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("✗ Configuration - %v\n", err)
		allOK = false
		// Keep going with defaults so the remaining checks still run.
		cfg = config.Default()
		config.ApplyEnv(cfg)
	} else {
		fmt.Println("✓ Configuration loads and validates")
	}
	fmt.Println()

	fmt.Println("Model Files:")
	allOK = checkFile(cfg.Detection.WeightsPath, "SSD MobileNet weights") && allOK
	allOK = checkFile(cfg.Detection.GraphPath, "SSD MobileNet graph") && allOK
	allOK = checkFile(cfg.Detection.YOLOModelPath, "YOLOv8 model") && allOK
	allOK = checkFile(cfg.STT.ModelPath, "Whisper model") && allOK
	fmt.Println()

	fmt.Println("Environment Variables:")
	checkEnvVar(config.EnvConfig)
	checkEnvVar(config.EnvWhisperURL)
	checkEnvVar(config.EnvYOLOURL)
	fmt.Println()

	fmt.Println("Services:")
	checkService("Transcription service", cfg.STTURL())
	checkService("Detection service", cfg.DetectURL())
	fmt.Println()

	fmt.Println(strings.Repeat("=", 60))
	if allOK {
		fmt.Println("✓ All critical checks passed!")
		fmt.Println()
		fmt.Println("You can now run:")
		fmt.Println("  vera")
	} else {
		fmt.Println("✗ Some critical checks failed.")
		fmt.Println()
		fmt.Println("Fix the items marked ✗ above and run this check again.")
	}
	fmt.Println(strings.Repeat("=", 60))

	if !allOK {
		os.Exit(1)
	}
}

// checkFile reports whether path exists on disk.
func checkFile(path, description string) bool {
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("✗ %s - Not found at %s\n", description, path)
		return false
	}
	fmt.Printf("✓ %s\n", description)
	return true
}

// checkEnvVar reports whether name is set. Unset variables are a
// warning only; every one of them has a built-in default.
func checkEnvVar(name string) {
	value := os.Getenv(name)
	if value == "" {
		fmt.Printf("⚠ %s - Not set\n", name)
		return
	}
	fmt.Printf("✓ %s = %s\n", name, value)
}

// checkService probes a companion service's health endpoint. The
// services are optional at check time, so failures are warnings.
func checkService(description, base string) {
	var health struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	if err := httpc.GetJSON(base+"/health", &health); err != nil {
		fmt.Printf("⚠ %s - Not reachable at %s\n", description, base)
		return
	}
	fmt.Printf("✓ %s (%s) at %s\n", description, health.Service, base)
}
