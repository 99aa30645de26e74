/*
Package otapub publishes Over-The-Air (OTA) app updates into a git repository
serving as the update store.

“OTA, publish!” A [Publisher] runs the app project's export toolchain (by
default “npx expo export -p android”), copies the export output into a new
update directory, and then commits and pushes it. Updates are laid out by
runtime version, optional release channel, and creation time in Unix
milliseconds:

	updates/<runtime-version>/[<channel>/]<timestamp>/

Before committing, the publisher rewrites any backslashes in the platform's
bundle and asset paths inside metadata.json into forward slashes, so that
exports made on Windows can be served from anywhere. It also snapshots the
public view of the project's app configuration into expoConfig.json.

Publishing is strictly sequential and stops at the first failing step without
rolling back. The returned error is a [*PublishError] whose kind can be tested
using errors.Is with the Err... sentinels, and [ExitCode] maps it onto a
process exit status.
*/
package otapub
