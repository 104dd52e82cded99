// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ttacon/chalk"

	"code.hybscloud.com/simco/trace"
)

// display writes one trace entry, either as a plain "time net bits" line or
// styled for a terminal.
type display func(output io.Writer, e trace.Entry) error

func plainDisplay(output io.Writer, e trace.Entry) error {
	_, err := fmt.Fprintf(output, "%d %s %s\n", e.Time, e.Net, e.Bits)
	return err
}

func prettyDisplay(output io.Writer, e trace.Entry) error {
	boldGreen := chalk.Green.NewStyle().WithTextStyle(chalk.Bold)
	boldCyan := chalk.Cyan.NewStyle().WithTextStyle(chalk.Bold)
	whiteText := chalk.White.NewStyle().WithTextStyle(chalk.Bold)
	_, err := fmt.Fprintf(output, "%s %s %s\n",
		boldGreen.Style(fmt.Sprintf("[ Time %s ]", strconv.FormatUint(e.Time, 10))),
		boldCyan.Style(fmt.Sprintf("[ %s ]", e.Net)),
		whiteText.Style(e.Bits),
	)
	return err
}
