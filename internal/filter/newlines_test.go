package filter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertNewlines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "sibling selectors",
			in: `
.ClassA {
    color: red;
}
.ClassB {
    color: blue;
}
`,
			want: `
.ClassA {
    color: red;
}

.ClassB {
    color: blue;
}
`,
		},
		{
			name: "property followed by nested selector",
			in: `
.ClassA {
    color: red;
    .ClassB {
        color: blue;
    }
}
`,
			want: `
.ClassA {
    color: red;

    .ClassB {
        color: blue;
    }
}
`,
		},
		{
			name: "line comment above nested selector",
			in: `
.ClassA {
    color: red;
    // This is class b
    .ClassB {
        color: blue;
    }
}
`,
			want: `
.ClassA {
    color: red;

    // This is class b
    .ClassB {
        color: blue;
    }
}
`,
		},
		{
			name: "block comment above nested selector",
			in: `
.ClassA {
    color: red;
    /*
     This is class b
    */
    .ClassB {
        color: blue;
    }
}
`,
			want: `
.ClassA {
    color: red;

    /*
     This is class b
    */
    .ClassB {
        color: blue;
    }
}
`,
		},
		{
			name: "selector list is kept together",
			in:   "a {\n}\n.b,\n.c {\n}\n",
			want: "a {\n}\n\n.b,\n.c {\n}\n",
		},
		{
			name: "existing blank line",
			in: `
.ClassA {
    color: red;
}

.ClassB {
    color: blue;
}
`,
			want: `
.ClassA {
    color: red;
}

.ClassB {
    color: blue;
}
`,
		},
		{
			name: "nested selectors directly after opener",
			in: `
.ClassA {
    .ClassB {
        color: blue;
    }
}
`,
			want: `
.ClassA {
    .ClassB {
        color: blue;
    }
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InsertNewlines(tt.in)
			require.Equal(t, tt.want, got)
			require.Equal(t, got, InsertNewlines(got), "second pass must not add blank lines")
		})
	}
}
