package mathutil

// Vec is a float64 vector.
type Vec = []float64

// Mat is a 2D float64 matrix stored as row-major [][]float64.
type Mat = [][]float64

// NewMat creates a rows x cols matrix initialized to zero.
// All rows share one contiguous backing array.
func NewMat(rows, cols int) Mat {
	m := make(Mat, rows)
	data := make([]float64, rows*cols)
	for i := range m {
		m[i] = data[i*cols : (i+1)*cols]
	}
	return m
}

// NewMatFill creates a rows x cols matrix filled with val.
func NewMatFill(rows, cols int, val float64) Mat {
	m := NewMat(rows, cols)
	FillMat(m, val)
	return m
}

// FillMat fills all elements of an existing matrix with val.
func FillMat(m Mat, val float64) {
	for i := range m {
		FillVec(m[i], val)
	}
}

// FillVec fills all elements of an existing vector with val.
func FillVec(v Vec, val float64) {
	for i := range v {
		v[i] = val
	}
}

// Unflatten views a row-major flat slice as rows x cols without copying.
// data must hold at least rows*cols elements.
func Unflatten(data []float64, rows, cols int) Mat {
	m := make(Mat, rows)
	for i := range m {
		m[i] = data[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return m
}

// Flatten copies m into a new row-major slice. Rows are assumed to share
// the length of the first row.
func Flatten(m Mat) []float64 {
	if len(m) == 0 {
		return nil
	}
	cols := len(m[0])
	out := make([]float64, 0, len(m)*cols)
	for _, row := range m {
		out = append(out, row...)
	}
	return out
}
