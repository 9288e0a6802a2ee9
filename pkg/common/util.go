//
//  Copyright © Fieldworks Inc. All rights reserved.
//

package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// PrettyFprint writes a readable JSON representation of the provided data
// structure to w. Marshal failures are reported on w rather than returned;
// this is a display helper, not a serialization primitive.
func PrettyFprint(w io.Writer, data interface{}) {
	p, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		fmt.Fprintln(w, err)
	} else {
		fmt.Fprintf(w, "%s \n", p)
	}
}

// PrettyPrint outputs a readable JSON representation of the provided data
// structure to stdout.
func PrettyPrint(data interface{}) {
	PrettyFprint(os.Stdout, data)
}
