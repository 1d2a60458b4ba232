// Command perft counts the leaf nodes of the legal move tree, for checking
// move generation against published results.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/pkg/profile"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func main() {
	fen := flag.String("fen", model.StartingFEN, "position to search")
	depth := flag.Int("depth", 4, "search depth in plies")
	divide := flag.Bool("divide", false, "print the count below each root move")
	profileMode := flag.String("profile", "", "write a cpu or mem profile")
	profileDir := flag.String("profile-dir", ".", "directory for profile output")
	flag.Parse()

	if err := run(*fen, *depth, *divide, *profileMode, *profileDir); err != nil {
		fmt.Fprintln(os.Stderr, "perft:", err)
		os.Exit(1)
	}
}

func run(fen string, depth int, divide bool, profileMode, profileDir string) error {
	switch profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(profileDir)).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(profileDir)).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", profileMode)
	}

	game, err := model.ParseFEN(fen)
	if err != nil {
		return err
	}

	start := time.Now()
	var nodes uint64
	if divide {
		counts, err := model.PerftDivide(game, depth)
		if err != nil {
			return err
		}
		moves := maps.Keys(counts)
		slices.Sort(moves)
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, counts[m])
			nodes += counts[m]
		}
		fmt.Println()
	} else {
		nodes, err = model.Perft(game, depth)
		if err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("depth %d: %d nodes in %s", depth, nodes, elapsed.Round(time.Millisecond))
	if secs := elapsed.Seconds(); secs > 0 {
		fmt.Printf(" (%.0f nps)", float64(nodes)/secs)
	}
	fmt.Println()
	return nil
}
