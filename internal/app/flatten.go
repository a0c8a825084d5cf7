package app

import "github.com/jsamuelsen11/testdata-provisioner/internal/domain"

// Flatten collapses arbitrarily nested default representations into one
// sequence, depth-first, preserving order. owner names the object that
// produced them and is only used in errors. Nil objects, including typed
// nil pointers, are rejected.
func Flatten(owner string, reps []any) ([]domain.Object, error) {
	var out []domain.Object
	if err := flattenInto(owner, reps, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenInto(owner string, reps []any, out *[]domain.Object) error {
	for _, el := range reps {
		switch v := el.(type) {
		case domain.Object:
			if domain.IsNil(v) {
				return &domain.InvalidDefaultRepresentationsError{Owner: owner, Got: el}
			}
			*out = append(*out, v)
		case []domain.Object:
			for _, obj := range v {
				if domain.IsNil(obj) {
					return &domain.InvalidDefaultRepresentationsError{Owner: owner, Got: el}
				}
			}
			*out = append(*out, v...)
		case []any:
			if err := flattenInto(owner, v, out); err != nil {
				return err
			}
		default:
			return &domain.InvalidDefaultRepresentationsError{Owner: owner, Got: el}
		}
	}
	return nil
}
