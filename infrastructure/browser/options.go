package browser

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Options configure how a browser is launched
type Options struct {
	Headless          bool
	Width             int
	Height            int
	NoSandbox         bool
	ProfileRoot       string
	DriverPath        string
	BrowserPath       string
	NavigationTimeout time.Duration
}

// chromeArgs - command line shared by both drivers. Playwright sets headless
// mode through its launch options.
func (o Options) chromeArgs() []string {
	args := []string{
		"--disable-gpu",
		"--disable-dev-shm-usage",
		fmt.Sprintf("--window-size=%d,%d", o.Width, o.Height),
	}
	if o.NoSandbox {
		args = append(args, "--no-sandbox")
	}
	return args
}

// seleniumArgs - chromeArgs plus the headless switch chromedriver needs
func (o Options) seleniumArgs() []string {
	args := o.chromeArgs()
	if o.Headless {
		args = append(args, "--headless=new")
	}
	return args
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	for _, path := range []string{configured, os.Getenv("BROWSER_DRIVER_PATH")} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// findChromeBinary - finds Chrome/Chromium browser executable path, "" lets the driver decide
func findChromeBinary(configured string) string {
	for _, path := range []string{configured, os.Getenv("CHROME_BINARY_PATH")} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}
