// Command a51crack recovers the unknown R2 initial state of an A5/1
// generator from the known R1 and R3 states and a known plaintext
// fragment, then decrypts the whole ciphertext.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"filippo.io/age"

	"github.com/luwangg/a51crack/a51"
	"github.com/luwangg/a51crack/crack"
	"github.com/luwangg/a51crack/internal/input"
	"github.com/luwangg/a51crack/internal/logging"
	"github.com/luwangg/a51crack/internal/report"
)

type recipientList []string

func (r *recipientList) String() string { return strings.Join(*r, ",") }

func (r *recipientList) Set(s string) error {
	*r = append(*r, s)
	return nil
}

func main() {
	var recipients recipientList
	statesPath := flag.String("states", "", "initial states file (R1 and R3, one per line)")
	plaintextPath := flag.String("plaintext", "", "known plaintext file")
	ciphertextPath := flag.String("ciphertext", "", "ciphertext file of '0'/'1' characters")
	outDir := flag.String("out", ".", "directory for recovered_y_state.txt and recovered_plaintext.txt")
	workers := flag.Int("workers", runtime.NumCPU(), "number of parallel search workers")
	prefix := flag.Int("prefix", crack.DefaultPrefixLength, "number of known plaintext bits each candidate is tested on")
	usePassphrase := flag.Bool("passphrase", false, "seal the recovered plaintext with an age passphrase (prompted)")
	selfTest := flag.Bool("selftest", false, "check the generator against the reference test vector and exit")
	logLevel := flag.String("log-level", "info", "log level: error, warn, info or debug")
	flag.Var(&recipients, "age-recipient", "seal the recovered plaintext to this age public key (repeatable)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\nMissing input paths are prompted for on a terminal.\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logging.Default()
	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	log.SetLevel(level)

	if *selfTest {
		if err := a51.SelfTest(); err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		log.Infof("self test passed")
		return
	}

	paths := input.Paths{States: *statesPath, Plaintext: *plaintextPath, Ciphertext: *ciphertextPath}
	if err := promptMissing(&paths); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	passphrase := ""
	if *usePassphrase {
		passphrase, err = promptPassphrase("Passphrase for recovered plaintext: ")
		if err != nil {
			log.Errorf("reading passphrase: %v", err)
			os.Exit(1)
		}
	}
	rs, err := report.Recipients(recipients, passphrase)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, log, paths, *outDir, crack.Options{Workers: *workers, PrefixLength: *prefix}, rs); err != nil {
		if errors.Is(err, crack.ErrSearchExhausted) {
			log.Warnf("failed to recover R2: %v", err)
		} else {
			log.Errorf("%v", err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logging.Logger, paths input.Paths, outDir string, opts crack.Options, rs []age.Recipient) error {
	files, err := input.Load(paths)
	if err != nil {
		return err
	}
	log.Infof("X: %s", files.X)
	log.Infof("Z: %s", files.Z)
	log.Infof("known plaintext: %d characters %q", len([]rune(files.Plaintext)), input.Preview(files.Plaintext, 50))
	log.Infof("ciphertext: %d bits %s", len(files.Ciphertext), input.Preview(files.Ciphertext.String(), 64))

	var counter atomic.Uint64
	opts.Counter = &counter
	log.Infof("searching %d R2 candidates on a %d bit prefix with %d workers", crack.SpaceSize, prefixOrDefault(opts.PrefixLength), workersOrDefault(opts.Workers))

	start := time.Now()
	done := make(chan struct{})
	progressDone := startProgress(log, &counter, crack.SpaceSize, start, done)
	res, err := crack.Recover(ctx, files.Target(), opts)
	close(done)
	<-progressDone
	if err != nil {
		log.Infof("checked %s candidates in %s", formatCount(int64(counter.Load())), time.Since(start).Round(time.Millisecond))
		return err
	}
	log.Infof("recovered R2: %s (candidate %d) after %s candidates in %s",
		res.Candidate, uint32(res.Candidate), formatCount(int64(counter.Load())), time.Since(start).Round(time.Millisecond))

	statePath, err := report.WriteState(outDir, res.Candidate)
	if err != nil {
		return err
	}
	textPath, err := report.WritePlaintext(outDir, res.Text, rs...)
	if err != nil {
		return err
	}
	if dropped := len(res.Plaintext) % 8; dropped != 0 {
		log.Debugf("dropped %d trailing bits that do not fill a character", dropped)
	}
	log.Infof("results saved to %s and %s", statePath, textPath)
	return nil
}

func prefixOrDefault(n int) int {
	if n <= 0 {
		return crack.DefaultPrefixLength
	}
	return n
}

func workersOrDefault(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}
