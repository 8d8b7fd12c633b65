// Copyright 2025 KrakLabs
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
//
// SPDX-License-Identifier: Apache-2.0

package parse

// builtinDenyList is the single process-wide set of call-site identifiers
// that are dropped before emission. It spans every supported language; the
// overlap between languages (e.g. "print" for Python and Swift) is
// intentional and must not be split per language (SPEC_FULL.md §9).
var builtinDenyList = buildDenyList(
	// Console / logging, across ecosystems.
	"console", "log", "print", "println", "printf", "fprintf", "sprintf",
	"vprintf", "vsprintf", "fmt", "Print", "Println", "Printf", "Sprintf",
	"Fprintf", "Fprintln", "error", "warn", "debug", "trace", "info",
	"Logger", "getLogger", "logging", "logger", "NSLog", "dump", "var_dump",
	"print_r", "echo", "puts", "gets", "perror", "syslog",

	// Memory / allocation.
	"malloc", "calloc", "realloc", "free", "new", "delete", "alloc",
	"dealloc", "memcpy", "memmove", "memset", "memcmp", "sizeof",
	"make", "new_array", "posix_memalign", "operator_new",

	// Collections / builtins common across JS, Python, Go, Rust.
	"append", "push", "pop", "shift", "unshift", "splice", "slice",
	"concat", "join", "split", "map", "filter", "reduce", "forEach",
	"sort", "reverse", "indexOf", "includes", "find", "findIndex",
	"some", "every", "flat", "flatMap", "keys", "values", "entries",
	"len", "cap", "copy", "delete", "clear", "insert", "remove",
	"extend", "update", "get", "set", "has", "add", "contains",
	"toString", "valueOf", "hasOwnProperty", "isPrototypeOf",
	"range", "enumerate", "zip", "iter", "next", "collect", "clone",
	"to_string", "to_vec", "as_str", "as_ref", "unwrap", "unwrap_or",
	"expect", "is_some", "is_none", "is_ok", "is_err",

	// JS/TS/Node ecosystem.
	"require", "import", "module", "exports", "Object", "Array",
	"JSON", "parse", "stringify", "Promise", "resolve", "reject",
	"then", "catch", "finally", "async", "await", "setTimeout",
	"setInterval", "clearTimeout", "clearInterval", "fetch",
	"addEventListener", "removeEventListener", "dispatchEvent",
	"querySelector", "querySelectorAll", "getElementById",
	"createElement", "appendChild", "removeChild", "setAttribute",
	"getAttribute", "classList", "useState", "useEffect", "useMemo",
	"useCallback", "useRef", "useContext", "createContext",

	// Python builtins.
	"str", "int", "float", "bool", "list", "dict", "set", "tuple",
	"bytes", "bytearray", "frozenset", "object", "type", "isinstance",
	"issubclass", "super", "repr", "format", "hash", "id", "vars",
	"dir", "globals", "locals", "hasattr", "getattr", "setattr",
	"delattr", "callable", "iter", "next", "open", "input", "exec",
	"eval", "compile", "__init__", "__str__", "__repr__", "__len__",
	"__eq__", "__hash__", "__enter__", "__exit__", "staticmethod",
	"classmethod", "property", "abstractmethod",

	// Java / Kotlin / Android style.
	"toString", "equals", "hashCode", "getClass", "notify", "notifyAll",
	"wait", "clone", "finalize", "valueOf", "compareTo", "iterator",
	"System", "out", "err", "Arrays", "Collections", "Optional",
	"Stream", "Runnable", "Thread", "synchronized",

	// Go standard library hotspots.
	"panic", "recover", "close", "cap", "len", "make", "new",
	"Errorf", "Wrap", "Wrapf", "Unwrap", "Is", "As",

	// Rust std hotspots.
	"println", "eprintln", "format", "vec", "Box", "Rc", "Arc",
	"RefCell", "Mutex", "RwLock", "spawn", "join", "lock",

	// C# / .NET.
	"Console", "WriteLine", "Write", "ReadLine", "ToString", "Equals",
	"GetHashCode", "GetType", "Dispose", "ConfigureAwait",

	// PHP / Laravel.
	"array_map", "array_filter", "array_reduce", "array_merge",
	"array_keys", "array_values", "array_push", "array_pop",
	"array_shift", "array_unshift", "in_array", "array_key_exists",
	"count", "implode", "explode", "str_replace", "preg_match",
	"preg_replace", "sprintf", "var_export", "json_encode",
	"json_decode", "Route::get", "Route::post", "Route::put",
	"Route::delete", "Route::resource", "Route::group",
	"DB::table", "DB::select", "Auth::user", "Auth::check",
	"Cache::get", "Cache::put", "Config::get", "View::make",

	// Swift / iOS / UIKit / SwiftUI.
	"DispatchQueue", "async", "sync", "main", "global", "print",
	"debugPrint", "assert", "precondition", "fatalError",
	"UIViewController", "viewDidLoad", "viewWillAppear",
	"viewDidAppear", "viewWillDisappear", "viewDidDisappear",
	"UIView", "UILabel", "UIButton", "UITableView", "UICollectionView",
	"NotificationCenter", "addObserver", "removeObserver",
	"withAnimation", "onAppear", "onDisappear", "onTapGesture",
	"body", "some",

	// C/C++ standard library.
	"strlen", "strcpy", "strncpy", "strcat", "strncat", "strcmp",
	"strncmp", "strchr", "strstr", "strtok", "atoi", "atof", "atol",
	"qsort", "bsearch", "exit", "abort", "assert", "fopen", "fclose",
	"fread", "fwrite", "fseek", "ftell", "std", "cout", "cin", "endl",
	"cerr", "vector", "string", "map", "unordered_map", "set", "pair",
	"make_pair", "make_shared", "make_unique", "shared_ptr",
	"unique_ptr", "move", "forward", "emplace_back", "push_back",
	"pop_back", "begin", "end", "size", "empty", "reserve", "resize",
)

// buildDenyList dedups its inputs into a lookup set.
func buildDenyList(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// IsBuiltinCall reports whether a call-site identifier is in the built-in
// deny-list and should be dropped before emission.
func IsBuiltinCall(name string) bool {
	_, ok := builtinDenyList[name]
	return ok
}
