/*
otapub exports an app project and publishes it as an OTA update into a git
repository serving as the update store.

# Usage

	otapub -p project-path -r runtime-version [-c channel] [flags]
	otapub list [flags]

# Flags

	-c, --channel string           release channel to publish to, such as "production" or "beta"
	    --config string            settings file, defaults to .otapub.yaml in the update repository root
	    --debug                    enable debug logging
	-h, --help                     help for otapub
	-p, --project-path string      mandatory: path of the app project to publish
	    --repo string              update repository root, defaults to the current working directory
	-r, --runtime-version string   mandatory: runtime version of the update
	-v, --version                  version for otapub

Updates end up in “updates/<runtime-version>/[<channel>/]<timestamp>/” of
the update repository, which then gets committed and pushed.
*/
package main
