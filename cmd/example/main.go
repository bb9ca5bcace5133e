package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-btchip/btchip/pkg/options"
	"github.com/go-btchip/btchip/pkg/sugar"
	"github.com/go-btchip/btchip/pkg/wallet"
)

func main() {
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelDebug)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	}))

	cl, err := sugar.FindWallet(
		options.WithLogger(logger),
		options.WithAppID("https://wallet.example"),
	)
	if err != nil {
		panic(err)
	}

	info, err := cl.GetInfo()
	if err != nil {
		panic(err)
	}
	fmt.Printf("Firmware: %s\n", info.Version())
	fmt.Printf("Initialized: %t, PIN verified: %t\n", info.Initialized, info.PinVerified)

	random, err := cl.GetRandom(16)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Random: %x\n", random)

	if err := cl.VerifyPin("1234"); err != nil {
		var retryErr *wallet.PinRetryError
		if errors.As(err, &retryErr) {
			fmt.Printf("Wrong PIN, %d tries left\n", retryErr.TriesLeft)
			return
		}
		panic(err)
	}

	pk, err := cl.GetPublicKey()
	if err != nil {
		panic(err)
	}
	fmt.Printf("Public key: %x\n", pk.Compressed())

	// Sign a 32-byte digest; confirm on the device when it blinks.
	sig, err := cl.Sign("00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff")
	if err != nil {
		panic(err)
	}
	fmt.Printf("Signature: %x\n", sig)
}
