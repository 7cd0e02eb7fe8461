package register

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aristath/qsim/internal/modules/faults"
	"github.com/aristath/qsim/pkg/algebra"
)

// ReportParams writes the register geometry to w. Only the designated
// partition emits anything, so a distributed run prints the report
// exactly once.
func (r *Register) ReportParams(w io.Writer) {
	if !r.Partition.IsDesignatedReporter() {
		return
	}
	numAmps := int64(1) << uint(r.QubitCount)
	perRank := numAmps / int64(r.Partition.NumChunks)
	fmt.Fprintf(w, "QUBITS:\n")
	fmt.Fprintf(w, "Number of qubits is %d.\n", r.QubitCount)
	fmt.Fprintf(w, "Number of amps is %d.\n", numAmps)
	fmt.Fprintf(w, "Number of amps per rank is %d.\n", perRank)
}

// StateFileName returns the per-partition state dump file name.
func (r *Register) StateFileName() string {
	return fmt.Sprintf("state_rank_%d.csv", r.Partition.ChunkID)
}

// WriteState serializes the local partition's amplitudes to
// state_rank_<chunkId>.csv inside dir: the designated partition writes
// the "real, imag" header, then every partition writes one fixed-point
// line per local amplitude at 12 decimal digits.
func (r *Register) WriteState(dir string, prec algebra.Precision) error {
	path := filepath.Join(dir, r.StateFileName())
	f, err := os.Create(path)
	if err != nil {
		return faults.Check(false, faults.FileOpenFailed, "reportState")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if r.Partition.IsDesignatedReporter() {
		fmt.Fprintf(w, "real, imag\n")
	}

	lineFormat := prec.AmpFormat() + ", " + prec.AmpFormat() + "\n"
	for i := int64(0); i < r.Partition.NumAmpsPerChunk; i++ {
		fmt.Fprintf(w, lineFormat, r.Real[i], r.Imag[i])
	}
	return w.Flush()
}
