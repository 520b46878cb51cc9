// Package robot configures and connects brick sessions.
package robot

import "github.com/gwillem/brickctl/pkg/brick"

// OutputName identifies an output port on the brick.
type OutputName string

// Output ports as labelled on the brick.
const (
	OutputA OutputName = "A"
	OutputB OutputName = "B"
	OutputC OutputName = "C"
	OutputD OutputName = "D"
)

// Outputs returns the output names of a device class in index order.
func Outputs(class brick.Class) []OutputName {
	all := []OutputName{OutputA, OutputB, OutputC, OutputD}
	if class == brick.ClassNXT {
		return all[:3]
	}
	return all
}
