// Command vcsplit splits an image into visual-cryptography shares and writes
// them as PNG files, optionally with a stacked preview that simulates laying
// the printed shares on top of each other.
package main

import (
	"image/png"
	"log"
	"math/rand/v2"
	"os"

	visualcrypt "github.com/neco75/visual-crypto-lab"
	"github.com/neco75/visual-crypto-lab/utils"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
)

var (
	shares    = getopt.IntLong("shares", 'n', 2, "number of shares, 2-4")
	gray      = getopt.BoolLong("gray", 'g', "encode luminance instead of color channels")
	fit       = getopt.IntLong("fit", 'f', 0, "fit the source inside SIZExSIZE before encoding", "SIZE")
	posterize = getopt.IntLong("posterize", 'p', 0, "posterize the source to K colors before encoding", "K")
	method    = getopt.StringLong("method", 'm', "dominant", "palette method: dominant or kmeans")
	outDir    = getopt.StringLong("outdir", 'o', ".", "directory for share PNGs", "DIR")
	stackOut  = getopt.StringLong("stack", 's', "", "write a stacked preview PNG; \"-\" for stdout", "FILE")
	workers   = getopt.IntLong("workers", 'j', 0, "scanline workers, 0 = single pass")
	seed      = getopt.Uint64Long("seed", 0, 0, "deterministic seed, 0 = random")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("vcsplit: ")
	getopt.SetParameters("image")
	getopt.Parse()
	args := getopt.Args()
	if len(args) != 1 {
		getopt.Usage()
		os.Exit(2)
	}

	img, err := utils.ReadImage(args[0])
	if err != nil {
		log.Fatal(err)
	}
	if *fit > 0 {
		img = utils.FitTo(img, *fit, *fit)
	}
	if *posterize > 0 {
		var pm utils.PaletteMethod
		switch *method {
		case "dominant":
			pm = utils.PaletteMethodDominantColor
		case "kmeans":
			pm = utils.PaletteMethodKMeans
		default:
			log.Fatalf("unknown palette method %q", *method)
		}
		palette := utils.ExtractPalette(img, *posterize, pm)
		utils.SortPaletteByBrightness(palette)
		img = utils.Posterize(img, palette)
	}

	opt := visualcrypt.Options{
		Shares:  *shares,
		Color:   !*gray,
		Workers: *workers,
	}
	if *seed != 0 {
		opt.Rand = rand.New(rand.NewPCG(*seed, *seed))
	}
	out, err := visualcrypt.Encode(img, opt)
	if err != nil {
		log.Fatal(err)
	}
	if err := utils.SaveShareImages(out, *outDir); err != nil {
		log.Fatal(err)
	}

	if *stackOut == "" {
		return
	}
	stacked, err := visualcrypt.Stack(out)
	if err != nil {
		log.Fatal(err)
	}
	if *stackOut == "-" {
		if isatty.IsTerminal(os.Stdout.Fd()) {
			log.Fatal("refusing to write PNG data to a terminal")
		}
		if err := png.Encode(os.Stdout, stacked); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := utils.SaveImage(stacked, *stackOut); err != nil {
		log.Fatal(err)
	}
}
