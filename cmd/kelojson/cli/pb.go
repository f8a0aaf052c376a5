package cli

import (
	"fmt"
	"io"
	"os"

	pb "gopkg.in/cheggaaa/pb.v1"
)

// progressBar is a ReadCloser with an associated ProgressBar. Closing it
// closes the delegate and clears the terminal line of progress output.
type progressBar struct {
	r   io.ReadCloser
	bar *pb.ProgressBar
}

// WrapInputFile wraps f with a progress bar on stderr that tracks the
// bytes read relative to the file size. Stdin is returned unwrapped.
func WrapInputFile(f *os.File) (io.ReadCloser, error) {
	if f == os.Stdin {
		return os.Stdin, nil
	}
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	bar := pb.New(int(fi.Size())).SetUnits(pb.U_BYTES_DEC).SetWidth(79)
	bar.Output = os.Stderr
	bar.Start()

	return progressBar{
		r:   bar.NewProxyReader(f),
		bar: bar,
	}, nil
}

func (p progressBar) Read(b []byte) (int, error) {
	return p.r.Read(b)
}

func (p progressBar) Close() error {
	// make sure newline is not printed by Finish()
	p.bar.Output = nil
	p.bar.NotPrint = true
	p.bar.Finish()
	fmt.Fprintf(os.Stderr, "\033[2K\r") // clear status bar

	return p.r.Close()
}
