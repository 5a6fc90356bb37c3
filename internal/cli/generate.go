package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"pricebook/internal/csvio"
)

type generateCmd struct {
	out  string
	rows int
	seed int64
}

func (*generateCmd) Name() string     { return "generate" }
func (*generateCmd) Synopsis() string { return "write a synthetic sample price CSV" }
func (*generateCmd) Usage() string {
	return `pricebook generate [-out <path>] [-rows <n>] [-seed <n>]

  Writes synthetic denormalized price data in the import format, useful
  for trying the charts and dashboard without real observations.
`
}

func (p *generateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.out, "out", "data/generated_prices.csv", "Output CSV path")
	f.IntVar(&p.rows, "rows", 1000, "Number of rows to generate")
	f.Int64Var(&p.seed, "seed", 0, "Random seed (0 = seed from the clock)")
}

func (p *generateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	n, err := csvio.WriteSample(p.out, p.rows, p.seed)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Generated %d price rows -> %s\n", n, p.out)
	return subcommands.ExitSuccess
}
