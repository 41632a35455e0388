// Command newsense is the CLI for the Vietnamese financial-news
// sentiment pipeline.
//
// Usage:
//
//	newsense                     Show help
//	newsense import              Import articles from NDJSON
//	newsense score               Score unscored articles
//	newsense search <query>      Search stored articles
//	newsense queue build         Build the daily labeling queue
//	newsense review              Interactive labeling TUI
//	newsense mine                Mine keyword suggestions from feedback
package main

import (
	"fmt"
	"os"
)

const usage = `newsense — Vietnamese financial-news sentiment CLI

Usage:
  newsense <command> [flags]

Commands:
  import       Import articles from NDJSON (stdin or file)
  score        Score unscored articles with the lexicon
  search       Search stored articles (FTS query or --ticker SYM)
  list         List articles filtered by date range and source
  stats        Article, queue, and feedback statistics
  queue        Labeling queue: queue build | queue stats
  review       Interactive labeling TUI over the pending queue
  label        Label one queue item from the command line
  skip         Skip one queue item
  mine         Mine keyword suggestions from recent feedback
  suggestions  List pending keyword suggestions
  approve      Approve a keyword into the learned lexicon
  aggregate    Promote high-confidence suggestions automatically
  llm-eval     Evaluate high-uncertainty queue items with the LLM
  llm-sync     Fold high-confidence LLM verdicts into feedback

Environment:
  OPENAI_API_KEY   API key for llm-eval when not set in config

Run 'newsense <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "import":
		runImport()
	case "score":
		runScore()
	case "search":
		runSearch()
	case "list":
		runList()
	case "stats":
		runStats()
	case "queue":
		runQueue()
	case "review":
		runReview()
	case "label":
		runLabel()
	case "skip":
		runSkip()
	case "mine":
		runMine()
	case "suggestions":
		runSuggestions()
	case "approve":
		runApprove()
	case "aggregate":
		runAggregate()
	case "llm-eval":
		runLLMEval()
	case "llm-sync":
		runLLMSync()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "newsense: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
