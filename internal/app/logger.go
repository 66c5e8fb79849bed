package app

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger. Output to a terminal gets the
// colored text formatter; anything else gets plain timestamped text.
func NewLogger(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)

	tty := false
	if f, ok := out.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: !tty,
		DisableColors: !tty,
	})
	return logger, nil
}
