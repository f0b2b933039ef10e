// Command probe-feed is a CLI tool for checking what the notifier would
// extract from a feed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/johan/fedwatch-notifier/internal/feed"
	"github.com/johan/fedwatch-notifier/internal/probability"
)

func main() {
	feedURL := flag.String("url", feed.DefaultURL, "JSON feed URL")
	userAgent := flag.String("user-agent", feed.DefaultUserAgent, "User-Agent header")
	output := flag.String("output", "table", "Output format: table or json")
	raw := flag.Bool("raw", false, "Print the fetched payload instead of the extracted value")
	timeout := flag.Duration("timeout", 10*time.Second, "Request timeout")

	flag.Parse()

	if *output != "table" && *output != "json" {
		fmt.Println("Usage: probe-feed [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  probe-feed")
		fmt.Println("  probe-feed --url https://example.com/feed.json --output json")
		fmt.Println("  probe-feed --raw")
		os.Exit(1)
	}

	client := feed.NewClient(&http.Client{Timeout: *timeout}).WithUserAgent(*userAgent)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	payload, err := client.Fetch(ctx, *feedURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *raw {
		outputRaw(payload)
		return
	}

	match, ok := probability.Find(payload)
	if !ok {
		fmt.Fprintln(os.Stderr, "No Ease probability found in the feed")
		os.Exit(1)
	}

	outputMatch(*feedURL, match, *output)
}

func outputRaw(payload gjson.Result) {
	os.Stdout.Write(pretty.Pretty([]byte(payload.Raw)))
}

func outputMatch(url string, match probability.Match, format string) {
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(struct {
			URL string `json:"url"`
			probability.Match
		}{URL: url, Match: match})
		return
	}

	fmt.Printf("Source: %s\n", url)
	fmt.Printf("Time:   %s\n", time.Now().Format(time.RFC3339))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tPATH\tVALUE")
	fmt.Fprintf(w, "%s\t%s\t%s%%\n", match.Key, match.Path, strconv.FormatFloat(match.Value, 'f', -1, 64))
	w.Flush()
}
