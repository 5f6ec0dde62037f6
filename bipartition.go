package svd

// Pack assembles the four blocks of a two-qubit gate application
//
//	blocks[0] blocks[1]
//	blocks[2] blocks[3]
//
// into the single matrix an SVD call expects, matching the MPS
// engine's bipartition of a 2-qubit tensor before truncation.
func Pack(blocks [4]*ComplexMatrix) (*ComplexMatrix, error) {
	caller := "Pack"
	top, err := Concat(blocks[0], blocks[1], 1)
	if err != nil {
		return nil, err
	}
	bottom, err := Concat(blocks[2], blocks[3], 1)
	if err != nil {
		return nil, err
	}
	out, err := Concat(top, bottom, 0)
	if err != nil {
		return nil, newShapeError(caller, err.Error())
	}
	return out, nil
}

// UnpackU splits U's rows in half, recovering the two blocks that
// feed the left tensor of the bipartition.
func UnpackU(u *ComplexMatrix) (*ComplexMatrix, *ComplexMatrix, error) {
	return Split(u, 0)
}

// UnpackV splits V's columns in half after conjugate-transposing it,
// recovering the two blocks that feed the right tensor of the
// bipartition. vIsDagger tells UnpackV whether v already holds V
// dagger.
func UnpackV(v *ComplexMatrix, vIsDagger bool) (*ComplexMatrix, *ComplexMatrix, error) {
	vDagger := v
	if !vIsDagger {
		vDagger = Dagger(v)
	}
	return Split(vDagger, 1)
}
