// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package formatter

// 🎛️ Option is one of the formatter's transformation switches
type Option int

const (
	NoSimplify Option = iota
	Minify
	LuaCalls
	SolveRecordTable
	SolveListTable
)

// AllOptions lists every option in the order its flag is passed.
var AllOptions = []Option{NoSimplify, Minify, LuaCalls, SolveRecordTable, SolveListTable}

func (o Option) Flag() string {
	switch o {
	case NoSimplify:
		return "--nosimplify"
	case Minify:
		return "--minify"
	case LuaCalls:
		return "--lua_calls"
	case SolveRecordTable:
		return "--solve_record_table"
	case SolveListTable:
		return "--solve_list_table"
	default:
		return ""
	}
}

// Label is the checkbox text shown for the option.
func (o Option) Label() string {
	switch o {
	case NoSimplify:
		return "no simplify - disable AstSimplifier"
	case Minify:
		return "minify - minify code instead of beautify"
	case LuaCalls:
		return "lua calls - solve lua calls such as math.max(1, 4)"
	case SolveRecordTable:
		return "solve record table - solve Luraph's function table"
	case SolveListTable:
		return "solve list table - solve Luraph's number table"
	default:
		return ""
	}
}

func (o Option) String() string {
	switch o {
	case NoSimplify:
		return "nosimplify"
	case Minify:
		return "minify"
	case LuaCalls:
		return "lua_calls"
	case SolveRecordTable:
		return "solve_record_table"
	case SolveListTable:
		return "solve_list_table"
	default:
		return "unknown"
	}
}

// Options holds the five switches. The zero value has all of them off.
type Options struct {
	NoSimplify       bool `json:"nosimplify" yaml:"nosimplify" hcl:"nosimplify,optional"`
	Minify           bool `json:"minify" yaml:"minify" hcl:"minify,optional"`
	LuaCalls         bool `json:"lua_calls" yaml:"lua_calls" hcl:"lua_calls,optional"`
	SolveRecordTable bool `json:"solve_record_table" yaml:"solve_record_table" hcl:"solve_record_table,optional"`
	SolveListTable   bool `json:"solve_list_table" yaml:"solve_list_table" hcl:"solve_list_table,optional"`
}

func (o *Options) field(opt Option) *bool {
	switch opt {
	case NoSimplify:
		return &o.NoSimplify
	case Minify:
		return &o.Minify
	case LuaCalls:
		return &o.LuaCalls
	case SolveRecordTable:
		return &o.SolveRecordTable
	case SolveListTable:
		return &o.SolveListTable
	default:
		return nil
	}
}

func (o Options) Get(opt Option) bool {
	if f := o.field(opt); f != nil {
		return *f
	}
	return false
}

// Set returns a copy of o with opt switched on or off.
func (o Options) Set(opt Option, on bool) Options {
	if f := o.field(opt); f != nil {
		*f = on
	}
	return o
}

// 🧾 Args builds the formatter argument list: the input path, then the flag of
// every enabled option in AllOptions order
func Args(input string, opts Options) []string {
	args := []string{input}
	for _, opt := range AllOptions {
		if opts.Get(opt) {
			args = append(args, opt.Flag())
		}
	}
	return args
}
