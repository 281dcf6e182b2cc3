package n7tya

// Version is the interpreter release; overridable at link time.
var Version = "0.1.0"
