package batchgo_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/primefield/batchgo"
	"github.com/primefield/batchgo/hasher"
	"github.com/primefield/batchgo/testutil"
)

// Example_software demonstrates hashing a batch on the CPU backend.
func Example_software() {
	b, err := batchgo.New(batchgo.SoftwareOnly(), hasher.Arity2, 1024)
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	batch := testutil.NewRNG(1).Batch(2, 2)

	digests, err := b.Hash(batch)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%d digests from %d preimages\n", len(digests), len(batch))
	// Output: 2 digests from 2 preimages
}

// Example_fallback demonstrates falling back to the software backend when
// no accelerator is available.
func Example_fallback() {
	b, err := batchgo.New(batchgo.DefaultAccelerator(), hasher.Arity2, 1024)
	if errors.Is(err, batchgo.ErrUnsupportedBackend) {
		b, err = batchgo.New(batchgo.SoftwareOnly(), hasher.Arity2, 1024)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	fmt.Println("batcher ready:", b.MaxBatchSize())
	// Output: batcher ready: 1024
}
