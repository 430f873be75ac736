package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/vote-primitives/internal/test"
	"github.com/taurusgroup/vote-primitives/pkg/votecrypt"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	voters := flag.Int("voters", 8, "number of voters")
	options := flag.Int("options", 3, "number of options on the ballot")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*verbose {
		log = log.Level(zerolog.InfoLevel)
	}

	if err := run(*configPath, *voters, *options, log); err != nil {
		log.Error().Err(err).Msg("election failed")
		os.Exit(1)
	}
}

func run(configPath string, voters, options int, log zerolog.Logger) error {
	cfg := votecrypt.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = votecrypt.LoadConfig(configPath); err != nil {
			return err
		}
	}
	tk, err := votecrypt.New(cfg, votecrypt.WithLogger(log))
	if err != nil {
		return err
	}
	defer tk.Close()

	election, err := Setup(tk, options, 3, 2, log)
	if err != nil {
		return err
	}

	ids := make([]string, voters)
	for i := range ids {
		ids[i] = fmt.Sprintf("voter-%d", i)
	}
	net := NewNetwork(append([]string{authorityID, serverID}, ids...), voters)

	var (
		wg              sync.WaitGroup
		tally           [][]byte
		boxErr, authErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		authErr = Authority(tk, election, voters, net, log)
	}()
	go func() {
		defer wg.Done()
		tally, boxErr = BallotBox(tk, election, voters, net, log)
	}()

	expected := make([]uint64, options)
	err = test.Concurrently(voters, func(i int) error {
		token := make([]byte, 16)
		if _, err := rand.Read(token); err != nil {
			return err
		}
		choice := i % options
		return Voter(tk, election, ids[i], []byte(hex.EncodeToString(token)), choice, net, log)
	})
	if err != nil {
		return err
	}
	for i := 0; i < voters; i++ {
		expected[i%options]++
	}
	wg.Wait()
	if authErr != nil {
		return authErr
	}
	if boxErr != nil {
		return boxErr
	}

	result, err := Result(tk, election, tally)
	if err != nil {
		return err
	}
	for i, count := range result {
		log.Info().Int("option", i).Uint64("votes", count).Uint64("expected", expected[i]).Msg("result")
	}
	return nil
}
